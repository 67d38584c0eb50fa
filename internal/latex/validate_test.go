package latex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const goodDoc = `\documentclass{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage[french]{babel}
\begin{document}
\section{Cours}
Contenu du cours.
\end{document}`

func TestValidate_GoodDocument(t *testing.T) {
	res := Validate(goodDoc)
	require.True(t, res.IsValid)
	require.Empty(t, res.Errors)
	require.Empty(t, res.Warnings)
}

func TestValidate_MissingScaffolding(t *testing.T) {
	res := Validate(`\section{Intro} just text`)
	require.False(t, res.IsValid)
	require.Contains(t, res.Errors, "Document class missing")
	require.Contains(t, res.Errors, `\begin{document} missing`)
	require.Contains(t, res.Errors, `\end{document} missing`)
}

func TestValidate_MissingEndDocument(t *testing.T) {
	res := Validate(`\documentclass{article}\begin{document}\section{Cours}`)
	require.False(t, res.IsValid)
	require.Contains(t, res.Errors, `\end{document} missing`)
}

// any brace imbalance is an error
func TestValidate_UnbalancedBraces(t *testing.T) {
	res := Validate(`\documentclass{article}\begin{document}{{\end{document}`)
	require.False(t, res.IsValid)
	require.Contains(t, res.Errors, "Unmatched braces detected")
}

func TestValidate_Warnings(t *testing.T) {
	res := Validate(`\documentclass{article}\begin{document}texte\end{document}`)
	require.True(t, res.IsValid, "warnings must not block validity: %v", res.Errors)
	require.Contains(t, res.Warnings, "Recommended package inputenc missing")
	require.Contains(t, res.Warnings, "Recommended package fontenc missing")
	require.Contains(t, res.Warnings, "Recommended package babel missing")
	require.Contains(t, res.Warnings, "No sections found in document")
}

func TestValidate_Deterministic(t *testing.T) {
	a := Validate(goodDoc)
	b := Validate(goodDoc)
	require.Equal(t, a, b)
}

func TestValidate_FormattingNormalization(t *testing.T) {
	in := "\\documentclass{article}\r\n\\begin{document}\n\n\n\n\\section{Cours}texte\\end{document}"
	res := Validate(in)
	require.NotContains(t, res.CleanedContent, "\r\n")
	require.Contains(t, res.CleanedContent, "\n\\section{Cours}\n")
}
