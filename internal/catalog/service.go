package catalog

// Service applies the access policy on top of a Repository. Handlers only
// ever see templates the caller's plan unlocks.
type Service struct {
	repo   Repository
	policy AccessPolicy
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Levels() ([]*Level, error) {
	return s.repo.Levels()
}

// LevelName resolves the display name of a level. Returns "" when the
// level is unknown.
func (s *Service) LevelName(levelID string) string {
	levels, err := s.repo.Levels()
	if err != nil {
		return ""
	}
	for _, l := range levels {
		if l.ID == levelID {
			return l.Name
		}
	}
	return ""
}

// TemplatesFor lists the templates for a level and semester, keeping only
// those the plan may access. An unknown planID behaves like the free tier.
func (s *Service) TemplatesFor(planID, levelID, semester string) ([]*TemplateMeta, error) {
	all, err := s.repo.Templates(levelID, semester)
	if err != nil {
		return nil, err
	}
	var plan *Plan
	if planID != "" {
		if p, err := s.repo.Plan(planID); err == nil {
			plan = p
		}
	}
	out := []*TemplateMeta{}
	for _, t := range all {
		if s.policy.CanAccess(plan, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Template resolves one template and checks the plan may generate from it.
// ErrNotFound covers both a missing template and a denied one so the
// handler surface does not leak catalog contents.
func (s *Service) Template(planID, templateID string) (*TemplateMeta, error) {
	t, err := s.repo.Template(templateID)
	if err != nil {
		return nil, err
	}
	var plan *Plan
	if planID != "" {
		if p, err := s.repo.Plan(planID); err == nil {
			plan = p
		}
	}
	if !s.policy.CanAccess(plan, t) {
		return nil, ErrNotFound
	}
	return t, nil
}
