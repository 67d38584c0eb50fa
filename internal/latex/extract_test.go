package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const workbookDoc = `\documentclass[12pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[margin=2.5cm]{geometry}
\title{Cahier de Mathématiques}
\begin{document}
\maketitle
\section{Nombres et Calculs}
Opérations sur les nombres réels et calcul littéral.
\subsection{Puissances}
\begin{enumerate}
    \item Résolvez l'équation 2x + 5 = 13
    \item Calculez la dérivée de f
\end{enumerate}
\section{Géométrie}
Théorèmes de géométrie plane.
\end{document}`

func TestExtract_SectionsInOrder(t *testing.T) {
	ex := Extract(workbookDoc)
	require.Equal(t, []string{"Nombres et Calculs", "Géométrie"}, ex.Sections)
	require.Equal(t, []string{"Puissances"}, ex.Subsections)
	require.Equal(t, "Cahier de Mathématiques", ex.Title)
}

func TestExtract_ItemLines(t *testing.T) {
	ex := Extract(workbookDoc)
	require.Len(t, ex.ItemLines, 2)
	require.Contains(t, ex.ItemLines[0], "Résolvez")
}

func TestExtract_TextContent(t *testing.T) {
	ex := Extract(workbookDoc)
	require.True(t, ex.HasMeaningfulContent)
	require.Contains(t, ex.TextContent, "Opérations sur les nombres réels")
	require.Contains(t, ex.TextContent, "Théorèmes de géométrie plane")
	// command tokens and unit measurements must be gone
	require.NotContains(t, ex.TextContent, `\begin`)
	require.NotContains(t, ex.TextContent, `\item`)
	require.NotContains(t, ex.TextContent, "2.5cm")
}

func TestExtract_DuplicateSectionsPreserved(t *testing.T) {
	doc := `\documentclass{article}\begin{document}` +
		`\section{Exercices} a ` + strings.Repeat("x", 10) +
		`\section{Exercices} b\end{document}`
	ex := Extract(doc)
	require.Equal(t, []string{"Exercices", "Exercices"}, ex.Sections)
}

func TestExtract_TooShort(t *testing.T) {
	ex := Extract("tiny")
	require.False(t, ex.HasMeaningfulContent)
	require.Empty(t, ex.Sections)
	require.Empty(t, ex.TextContent)
}

func TestExtract_MalformedNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat(`\section{`, 40),
		"\x00\xff\xfe" + strings.Repeat("garbage } { \\", 20),
	}
	for _, in := range inputs {
		ex := Extract(in)
		require.False(t, ex.HasMeaningfulContent)
	}
}
