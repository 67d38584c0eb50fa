package latex

import "fmt"

// FallbackTemplate returns the known-good workbook template used when an AI
// draft fails validation. It always carries the full scaffolding and the
// recommended packages, so Validate reports it valid by construction.
func FallbackTemplate(fullName, levelName, academicYear string) string {
	if fullName == "" {
		fullName = "[Nom]"
	}
	if levelName == "" {
		levelName = "Mathématiques"
	}
	if academicYear == "" {
		academicYear = "[Année]"
	}
	return fmt.Sprintf(`\documentclass[12pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage[french]{babel}
\usepackage{amsmath,amssymb}
\usepackage[margin=2cm]{geometry}
\usepackage{fancyhdr}

\pagestyle{fancy}
\fancyhf{}
\fancyhead[L]{%s}
\fancyhead[C]{%s}
\fancyhead[R]{%s}
\fancyfoot[C]{\thepage}

\title{Cahier de %s}
\author{%s}
\date{%s}

\begin{document}

\maketitle
\tableofcontents
\newpage

\section{Cours}
[Espace pour les cours]

\section{Exercices}
[Espace pour les exercices]

\section{Devoirs}
[Espace pour les devoirs]

\section{Évaluations}
[Espace pour les évaluations]

\end{document}`, fullName, levelName, academicYear, levelName, fullName, academicYear)
}
