package compile

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mathplanner/mathplanner/internal/template"
)

// SyntheticWriter constructs a minimal valid PDF directly from primitive
// text operations. It is the terminal compilation fallback: no network, no
// external engine, structurally always succeeds.
//
// Output is deterministic for identical inputs and a fixed clock, so golden
// assertions are possible in tests.
type SyntheticWriter struct {
	// Now supplies the generation timestamp; defaults to time.Now.
	Now func() time.Time
}

// page geometry (US letter, points)
const (
	pdfPageW   = 612.0
	pdfPageH   = 792.0
	pdfLeftX   = 72.0
	pdfTopY    = 720.0
	pdfBottomY = 72.0

	maxExerciseLines = 8
	maxLineRunes     = 60
)

// built-in font resource names
const (
	fontRegular = "F1" // Helvetica
	fontBold    = "F2" // Helvetica-Bold
	fontOblique = "F3" // Helvetica-Oblique
)

type pdfLine struct {
	text string
	font string
	size float64
	gap  float64 // extra vertical space after the line
}

// Write lays out, top to bottom: a title, the personalization fields, the
// section titles (numbered), up to eight exercise lines (numbered,
// truncated), a fixed instructional footer and the generation timestamp.
// Pagination starts a new page whenever vertical space is exhausted.
func (w *SyntheticWriter) Write(ctx template.Context, sections []string, bulletLines []string) []byte {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now()

	title := ctx.TemplateName
	if title == "" {
		title = "Math Planner"
	}

	lines := []pdfLine{
		{title, fontBold, 20, 24},
		{"Informations personnelles", fontOblique, 14, 6},
		{"Nom: " + ctx.FullName, fontRegular, 12, 0},
		{"École: " + orDefault(ctx.SchoolName, "École"), fontRegular, 12, 0},
		{"Année scolaire: " + orDefault(ctx.AcademicYear, fmt.Sprintf("%d", ts.Year())), fontRegular, 12, 0},
		{"Niveau: " + ctx.LevelName, fontRegular, 12, 0},
		{"Semestre: " + strings.ReplaceAll(ctx.Semester, "_", " "), fontRegular, 12, 0},
		{fmt.Sprintf("Chapitre: %d", ctx.ChapterNumber), fontRegular, 12, 16},
	}

	if len(sections) > 0 {
		lines = append(lines, pdfLine{"Contenu du cours", fontOblique, 14, 6})
		for i, s := range sections {
			lines = append(lines, pdfLine{fmt.Sprintf("%d. %s", i+1, truncateRunes(s, maxLineRunes)), fontRegular, 12, 0})
		}
		lines[len(lines)-1].gap = 16
	}

	if len(bulletLines) > 0 {
		lines = append(lines, pdfLine{"Exercices et activités", fontOblique, 14, 6})
		for i, b := range bulletLines {
			if i == maxExerciseLines {
				break
			}
			lines = append(lines, pdfLine{fmt.Sprintf("%d. %s", i+1, truncateRunes(b, maxLineRunes)), fontRegular, 12, 0})
		}
		lines[len(lines)-1].gap = 16
	}

	lines = append(lines,
		pdfLine{"Instructions", fontOblique, 14, 6},
		pdfLine{"1. Consultez attentivement les exercices proposés", fontRegular, 12, 0},
		pdfLine{"2. Complétez toutes les activités demandées", fontRegular, 12, 0},
		pdfLine{"3. Vérifiez vos réponses avec votre professeur", fontRegular, 12, 0},
		pdfLine{"4. Utilisez ce document pour réviser", fontRegular, 12, 16},
		pdfLine{"Document généré automatiquement par Math Planner", fontRegular, 10, 0},
		pdfLine{fmt.Sprintf("Date de génération: %s à %02d:%02d", template.FrenchDate(ts), ts.Hour(), ts.Minute()), fontRegular, 10, 0},
	)

	return renderPDF(paginate(lines))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// paginate assigns lines to pages, breaking whenever the next line would
// fall below the bottom margin.
func paginate(lines []pdfLine) [][]pdfLine {
	var pages [][]pdfLine
	var cur []pdfLine
	y := pdfTopY
	for _, l := range lines {
		if y-l.size < pdfBottomY {
			pages = append(pages, cur)
			cur = nil
			y = pdfTopY
		}
		cur = append(cur, l)
		y -= l.size + 6 + l.gap
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}

// contentStream emits the text operators for one page.
func contentStream(lines []pdfLine) []byte {
	var b bytes.Buffer
	b.WriteString("BT\n")
	y := pdfTopY
	for _, l := range lines {
		fmt.Fprintf(&b, "/%s %g Tf\n", l.font, l.size)
		fmt.Fprintf(&b, "1 0 0 1 %g %g Tm\n", pdfLeftX, y)
		fmt.Fprintf(&b, "(%s) Tj\n", escapePDFText(l.text))
		y -= l.size + 6 + l.gap
	}
	b.WriteString("ET\n")
	return b.Bytes()
}

// escapePDFText escapes the PDF string delimiters. Text is emitted as-is
// otherwise; accented output renders approximately under the built-in
// fonts, which is acceptable for the fallback document.
func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// renderPDF serializes the object graph: catalog, page tree, three Type1
// fonts, then page + content-stream pairs, followed by the xref table.
func renderPDF(pages [][]pdfLine) []byte {
	type object struct {
		num  int
		body []byte
	}

	var objects []object
	add := func(num int, body string) {
		objects = append(objects, object{num, []byte(body)})
	}

	// object numbers: 1 catalog, 2 pages, 3-5 fonts, then 2 per page
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 6+2*i)
	}

	add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	add(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	add(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	add(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")
	add(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Oblique /Encoding /WinAnsiEncoding >>")

	for i, pg := range pages {
		pageNum := 6 + 2*i
		contentNum := pageNum + 1
		add(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Contents %d 0 R /Resources << /Font << /F1 3 0 R /F2 4 0 R /F3 5 0 R >> >> >>",
			pdfPageW, pdfPageH, contentNum))
		stream := contentStream(pg)
		add(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", obj.num, obj.body)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return out.Bytes()
}
