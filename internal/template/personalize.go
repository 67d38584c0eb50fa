// Package template substitutes the named placeholder tokens of a stored
// .tex workbook template with the requesting teacher's values.
package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Context is the flat record of substitution values for one generation
// request. It is built from the session profile plus the selected
// template/level/semester and discarded after use.
type Context struct {
	FullName       string
	SchoolName     string
	AcademicYear   string
	LevelName      string
	Semester       string
	ChapterNumber  int
	TemplateName   string
	GenerationDate time.Time
}

// Validate reports the missing required fields, if any. Optional fields
// (school, academic year, date) have defaults and are never required.
func (ctx Context) Validate() error {
	switch {
	case strings.TrimSpace(ctx.FullName) == "":
		return fmt.Errorf("full name is required")
	case strings.TrimSpace(ctx.LevelName) == "":
		return fmt.Errorf("level name is required")
	case strings.TrimSpace(ctx.TemplateName) == "":
		return fmt.Errorf("template name is required")
	case ctx.ChapterNumber < 1:
		return fmt.Errorf("chapter number must be positive")
	}
	return nil
}

// date returns the generation date, defaulting to now.
func (ctx Context) date() time.Time {
	if ctx.GenerationDate.IsZero() {
		return time.Now()
	}
	return ctx.GenerationDate
}

// Placeholder tokens matched literally inside stored templates. The token
// set is a file-format contract shared with the template authors.
const (
	tokenFullName     = "{nom_utilisateur}"
	tokenSchool       = "{nom_ecole}"
	tokenAcademicYear = "{annee_scolaire}"
	tokenLevel        = "{niveau}"
	tokenSemester     = "{semestre}"
	tokenChapter      = "{chapitre}"
	tokenDate         = "{date}"
	tokenTitle        = "{titre_document}"
)

// Personalize replaces every placeholder token in tmpl with the matching
// context value. Replacement is global, case-sensitive and single-pass:
// replacement values are never re-expanded. Missing optional fields fall
// back to documented defaults; the function cannot fail.
func Personalize(tmpl string, ctx Context) string {
	school := ctx.SchoolName
	if school == "" {
		school = "École"
	}
	year := ctx.AcademicYear
	if year == "" {
		year = strconv.Itoa(ctx.date().Year())
	}

	r := strings.NewReplacer(
		tokenFullName, ctx.FullName,
		tokenSchool, school,
		tokenAcademicYear, year,
		tokenLevel, ctx.LevelName,
		tokenSemester, strings.ReplaceAll(ctx.Semester, "_", " "),
		tokenChapter, fmt.Sprintf("Chapitre %d", ctx.ChapterNumber),
		tokenDate, FrenchDate(ctx.date()),
		tokenTitle, ctx.TemplateName,
	)
	return r.Replace(tmpl)
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDate formats t as a long fr-FR date, e.g. "2 septembre 2026".
func FrenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}
