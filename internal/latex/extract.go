package latex

import (
	"regexp"
	"strings"
)

// Extraction carries the semantic fragments pulled out of a LaTeX document
// for use by non-LaTeX renderers (HTML preview, synthetic PDF body).
type Extraction struct {
	Title                string   `json:"title,omitempty"`
	Sections             []string `json:"sections"`
	Subsections          []string `json:"subsections"`
	ItemLines            []string `json:"itemLines"`
	TextContent          string   `json:"textContent"`
	HasMeaningfulContent bool     `json:"hasMeaningfulContent"`
}

// minimum document and prose lengths before an extraction counts as meaningful
const (
	minDocumentLen = 50
	minProseLen    = 10
)

var (
	titleArgRe      = regexp.MustCompile(`\\title\{([^}]+)\}`)
	sectionArgRe    = regexp.MustCompile(`\\section\*?\{([^}]+)\}`)
	subsectionArgRe = regexp.MustCompile(`\\subsection\*?\{([^}]+)\}`)
	itemLineRe      = regexp.MustCompile(`\\exercise\{([^}]+)\}|\\item\s+([^\n\\]+)`)

	preambleCmdRe = regexp.MustCompile(`\\(?:documentclass|usepackage|geometry)(?:\[[^\]]*\])?\{[^}]*\}`)
	bareCmdRe     = regexp.MustCompile(`\\[a-zA-Z*]+\*?(?:\[[^\]]*\])?`)
	symbolCmdRe   = regexp.MustCompile(`\\[^a-zA-Z\s{]`)
	braceGroupRe  = regexp.MustCompile(`\{([^}]*)\}`)
	bracketRe     = regexp.MustCompile(`\[[^\]]*\]`)
	unitTokenRe   = regexp.MustCompile(`\d+(\.\d+)?(cm|mm|pt|em|ex|px|in)`)
	packageWordRe = regexp.MustCompile(`(?i)\b(margin|inputenc|fontenc|babel|amsmath|amssymb|geometry|fancyhdr)\b`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// Extract pulls section titles and readable prose out of raw LaTeX.
// Best-effort heuristic, not a parser: it never fails on malformed input and
// returns an empty result when no structure is found.
func Extract(text string) Extraction {
	if len(strings.TrimSpace(text)) < minDocumentLen {
		return Extraction{Sections: []string{}, Subsections: []string{}, ItemLines: []string{}}
	}

	ex := Extraction{
		Sections:    captures(sectionArgRe, text),
		Subsections: captures(subsectionArgRe, text),
		ItemLines:   itemLines(text),
	}
	if m := titleArgRe.FindStringSubmatch(text); m != nil {
		ex.Title = m[1]
	}

	prose := strings.Join(sectionSpans(text), " ")
	prose = stripCommands(prose)
	ex.TextContent = prose
	ex.HasMeaningfulContent = len(prose) > minProseLen && len(ex.Sections) > 0
	return ex
}

func captures(re *regexp.Regexp, text string) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func itemLines(text string) []string {
	out := []string{}
	for _, m := range itemLineRe.FindAllStringSubmatch(text, -1) {
		line := m[1]
		if line == "" {
			line = m[2]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// sectionSpans returns the text between each \section{...} and the next one
// (or \end{document} / end of input).
func sectionSpans(text string) []string {
	locs := sectionArgRe.FindAllStringIndex(text, -1)
	var spans []string
	for i, loc := range locs {
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		span := text[start:end]
		if idx := strings.Index(span, `\end{document}`); idx >= 0 {
			span = span[:idx]
		}
		if span = strings.TrimSpace(span); span != "" {
			spans = append(spans, span)
		}
	}
	return spans
}

// stripCommands removes LaTeX command tokens while keeping brace contents,
// then drops measurements, stray package names and excess whitespace.
func stripCommands(s string) string {
	s = preambleCmdRe.ReplaceAllString(s, " ")
	s = bareCmdRe.ReplaceAllString(s, " ")
	s = symbolCmdRe.ReplaceAllString(s, " ")
	s = braceGroupRe.ReplaceAllString(s, "$1")
	s = bracketRe.ReplaceAllString(s, " ")
	s = unitTokenRe.ReplaceAllString(s, "")
	s = packageWordRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}
