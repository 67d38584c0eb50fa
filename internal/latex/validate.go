package latex

import (
	"regexp"
	"strings"
)

// ValidationResult reports structural diagnostics for a LaTeX document.
// IsValid is true iff Errors is empty and CleanedContent still carries the
// required scaffolding.
type ValidationResult struct {
	IsValid        bool     `json:"isValid"`
	CleanedContent string   `json:"cleanedContent"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
}

var (
	sectionCmdRe    = regexp.MustCompile(`(\\section\{[^}]+\})`)
	subsectionCmdRe = regexp.MustCompile(`(\\subsection\{[^}]+\})`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// recommendedPackages are the encoding/locale packages a workbook template
// is expected to load.
var recommendedPackages = []string{"inputenc", "fontenc", "babel"}

// Validate checks text for the required LaTeX scaffolding and brace balance,
// then applies formatting normalization to produce CleanedContent.
// Pure and deterministic: identical input yields identical output.
func Validate(text string) ValidationResult {
	var errs, warns []string

	if !strings.Contains(text, `\documentclass`) {
		errs = append(errs, "Document class missing")
	}
	if !strings.Contains(text, `\begin{document}`) {
		errs = append(errs, `\begin{document} missing`)
	}
	if !strings.Contains(text, `\end{document}`) {
		errs = append(errs, `\end{document} missing`)
	}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		errs = append(errs, "Unmatched braces detected")
	}

	for _, pkg := range recommendedPackages {
		if !strings.Contains(text, pkg) {
			warns = append(warns, "Recommended package "+pkg+" missing")
		}
	}
	if !strings.Contains(text, `\section`) && !strings.Contains(text, `\chapter`) {
		warns = append(warns, "No sections found in document")
	}

	cleaned := formatContent(text)

	return ValidationResult{
		IsValid:        len(errs) == 0 && hasRequiredElements(cleaned),
		CleanedContent: cleaned,
		Errors:         errs,
		Warnings:       warns,
	}
}

// formatContent normalizes line endings, collapses blank-line runs and pads
// section commands with blank lines.
func formatContent(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = sectionCmdRe.ReplaceAllString(s, "\n$1\n")
	s = subsectionCmdRe.ReplaceAllString(s, "\n$1\n")
	return strings.TrimSpace(s)
}

func hasRequiredElements(text string) bool {
	for _, el := range []string{`\documentclass`, `\begin{document}`, `\end{document}`} {
		if !strings.Contains(text, el) {
			return false
		}
	}
	return true
}
