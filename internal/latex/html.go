package latex

import (
	"fmt"
	"regexp"
	"strings"
)

// ConversionResult is the outcome of a LaTeX-to-HTML preview conversion.
// HTML is never empty: on failure it carries a small error fragment.
type ConversionResult struct {
	HTML      string   `json:"html"`
	HasErrors bool     `json:"hasErrors"`
	Errors    []string `json:"errors"`
}

var (
	docclassRe   = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{[^}]*\}`)
	usepackageRe = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{[^}]*\}`)
	beginDocRe   = regexp.MustCompile(`\\begin\{document\}`)
	endDocRe     = regexp.MustCompile(`\\end\{document\}`)

	titleTagRe      = regexp.MustCompile(`\\title\{([^}]*)\}`)
	sectionTagRe    = regexp.MustCompile(`\\section\{([^}]*)\}`)
	subsectionTagRe = regexp.MustCompile(`\\subsection\{([^}]*)\}`)

	boldRe      = regexp.MustCompile(`\\textbf\{([^}]*)\}`)
	italicRe    = regexp.MustCompile(`\\textit\{([^}]*)\}`)
	underlineRe = regexp.MustCompile(`\\underline\{([^}]*)\}`)

	itemizeBeginRe   = regexp.MustCompile(`\\begin\{itemize\}`)
	itemizeEndRe     = regexp.MustCompile(`\\end\{itemize\}`)
	enumerateBeginRe = regexp.MustCompile(`\\begin\{enumerate\}`)
	enumerateEndRe   = regexp.MustCompile(`\\end\{enumerate\}`)
	itemRe           = regexp.MustCompile(`\\item\s*`)

	displayMathRe = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineParenRe = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)
	equationRe    = regexp.MustCompile(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`)
	alignRe       = regexp.MustCompile(`(?s)\\begin\{align\}(.*?)\\end\{align\}`)
	matrixRe      = regexp.MustCompile(`(?s)\\begin\{matrix\}(.*?)\\end\{matrix\}`)
	inlineMathRe  = regexp.MustCompile(`\$([^$]+)\$`)

	blankParaRe = regexp.MustCompile(`\n\s*\n`)
)

// ToHTML maps the constrained LaTeX subset to HTML with MathJax-compatible
// math markers. The substitution order matters: later rules assume earlier
// ones already ran. Any panic is recovered into an error result; the
// function never propagates a failure.
func ToHTML(text string) (res ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ConversionResult{
				HTML:      `<div class="latex-content p-6 max-w-4xl mx-auto"><p class="text-red-600">Erreur de conversion LaTeX</p></div>`,
				HasErrors: true,
				Errors:    []string{fmt.Sprintf("conversion error: %v", r)},
			}
		}
	}()

	html := text

	// 1. drop document scaffolding
	html = docclassRe.ReplaceAllString(html, "")
	html = usepackageRe.ReplaceAllString(html, "")
	html = beginDocRe.ReplaceAllString(html, "")
	html = endDocRe.ReplaceAllString(html, "")

	// 2. headings
	html = titleTagRe.ReplaceAllString(html, `<h1 class="text-2xl font-bold mb-4">$1</h1>`)
	html = sectionTagRe.ReplaceAllString(html, `<h2 class="text-xl font-semibold mt-6 mb-3">$1</h2>`)
	html = subsectionTagRe.ReplaceAllString(html, `<h3 class="text-lg font-medium mt-4 mb-2">$1</h3>`)

	// 3. inline formatting
	html = boldRe.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicRe.ReplaceAllString(html, "<em>$1</em>")
	html = underlineRe.ReplaceAllString(html, "<u>$1</u>")

	// 4. lists; items are left open and terminated visually by the next
	// item, the closing list tag, or end of content
	html = itemizeBeginRe.ReplaceAllString(html, `<ul class="list-disc ml-6 mb-4">`)
	html = itemizeEndRe.ReplaceAllString(html, "</ul>")
	html = enumerateBeginRe.ReplaceAllString(html, `<ol class="list-decimal ml-6 mb-4">`)
	html = enumerateEndRe.ReplaceAllString(html, "</ol>")
	html = itemRe.ReplaceAllString(html, `<li class="mb-1">`)

	// 5. math delimiters to double-dollar markers; align and matrix keep
	// their environment so the client renderer can reconstruct it. The
	// inline $...$ rule runs first and requires a non-empty body so it
	// cannot re-match the $$ pairs the display rules emit.
	html = inlineMathRe.ReplaceAllString(html, "$$$$${1}$$$$")
	html = displayMathRe.ReplaceAllString(html, "$$$$${1}$$$$")
	html = inlineParenRe.ReplaceAllString(html, "$$$$${1}$$$$")
	html = equationRe.ReplaceAllString(html, "$$$$${1}$$$$")
	html = alignRe.ReplaceAllString(html, "$$$$\\begin{align}${1}\\end{align}$$$$")
	html = matrixRe.ReplaceAllString(html, "$$$$\\begin{matrix}${1}\\end{matrix}$$$$")

	// 6. paragraphs
	html = blankParaRe.ReplaceAllString(html, `</p><p class="mb-4">`)
	html = strings.TrimSpace(html)
	if !strings.Contains(html, "<p") && !strings.Contains(html, "<h1") && !strings.Contains(html, "<h2") {
		html = `<p class="mb-4">` + html + "</p>"
	}

	return ConversionResult{
		HTML:   `<div class="latex-content p-6 max-w-4xl mx-auto">` + html + "</div>",
		Errors: []string{},
	}
}
