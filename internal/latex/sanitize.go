// Package latex implements the narrow LaTeX transformations the document
// pipeline needs: AI-artifact sanitization, structural validation, heuristic
// content extraction and a constrained LaTeX-to-HTML preview conversion.
//
// None of this is a LaTeX parser. The rules cover exactly the subset of
// markup the application itself generates or accepts, and they are
// deliberately regex-based best-effort transforms.
package latex

import (
	"regexp"
	"strings"
)

var (
	// first fenced block labelled latex/tex wins, everything around it is noise
	fencedLatexRe = regexp.MustCompile("(?s)```(?:latex|tex)\\n?(.*?)```")
	fencedAnyRe   = regexp.MustCompile("(?s)```.*?```")

	// assistant preamble sentences, removed up to the first colon
	preambleRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:Voici|Here is|This is).*?:`),
		regexp.MustCompile(`(?i)^(?:Le template|The template).*?:`),
	}

	// trailing explanations, removed to end of string
	trailingRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Ce template.*$`),
		regexp.MustCompile(`(?is)This template.*$`),
	}

	// sign-off phrases, removed to end of their line
	signoffRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)Voici le template LaTeX.*$`),
		regexp.MustCompile(`(?im)Here is the LaTeX template.*$`),
		regexp.MustCompile(`(?im)J'espère que cela répond.*$`),
		regexp.MustCompile(`(?im)I hope this helps.*$`),
		regexp.MustCompile(`(?im)N'hésitez pas à.*$`),
		regexp.MustCompile(`(?im)Feel free to.*$`),
	}

	// commands that touch files or catcodes are never acceptable in drafts
	dangerousRe = regexp.MustCompile(`(?i)\\(input|include|write|openout|closeout|immediate|special|catcode|read|openin)\b`)
)

// Sanitize strips AI/markdown artifacts and dangerous commands from raw
// generated text. It never fails; worst case it returns the trimmed input.
// Sanitize(Sanitize(x)) == Sanitize(x) for any x: the pass is applied until
// a fixpoint is reached.
func Sanitize(raw string) string {
	s := raw
	for i := 0; i < 8; i++ {
		next := sanitizePass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func sanitizePass(s string) string {
	// keep only the inner content of the first labelled fence when present
	if m := fencedLatexRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	// defensive double-pass: drop any remaining fenced blocks entirely
	s = fencedAnyRe.ReplaceAllString(s, "")

	for _, re := range preambleRes {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range signoffRes {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range trailingRes {
		s = re.ReplaceAllString(s, "")
	}

	// neutralize file I/O and catcode commands; dropping the backslash turns
	// the token into an inert comment and keeps the pass idempotent
	s = dangerousRe.ReplaceAllString(s, "% blocked: $1")

	return strings.TrimSpace(s)
}
