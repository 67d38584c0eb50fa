package catalog

// FirstSemester is the semester value free-plan access is limited to.
const FirstSemester = "1er_semestre"

// AccessPolicy decides which templates a subscription plan may generate.
// A nil or free plan only unlocks chapter 1 of the first semester; paid
// plans unlock everything. Template-level plan pinning narrows further: a
// template carrying a PlanID is visible to that plan only.
type AccessPolicy struct{}

func (AccessPolicy) CanAccess(plan *Plan, tpl *TemplateMeta) bool {
	if tpl == nil || !tpl.IsActive {
		return false
	}
	if tpl.PlanID != "" {
		if plan == nil || plan.ID != tpl.PlanID {
			return false
		}
	}
	if plan == nil || plan.IsFree {
		return tpl.Semester == FirstSemester && tpl.ChapterNumber == 1
	}
	return true
}
