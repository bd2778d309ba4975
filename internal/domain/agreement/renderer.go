package agreement

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginLeft   = 20.0
	pageMarginTop    = 20.0
	pageMarginRight  = 20.0
	pageMarginBottom = 25.0

	titleFontSize   = 16.0
	sectionFontSize = 13.0
	bodyFontSize    = 11.0
	bodyLineHeight  = 5.5
)

const titleKeyword = "EMPLOYMENT AGREEMENT"

var sectionHeadings = []string{
	"EMPLOYEE INFORMATION",
	"EMPLOYMENT DETAILS",
	"COMPENSATION",
	"SALARY BREAKDOWN",
	"TERMS AND CONDITIONS",
	"SIGNATURES",
}

// A fixed creation date keeps the output bytes deterministic for
// identical input text.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF lays the substituted agreement text onto A4 pages. Lines are
// classified heuristically: the document title renders bold and large,
// known section headings render bold and medium with surrounding space,
// numbered terms and bullets get a small trailing gap, everything else is
// body text. Long lines wrap and overflow starts a new page.
func RenderPDF(text string) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, &RenderError{Err: recoveredError(r)}
		}
	}()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(pdfEpoch)
	doc.SetMargins(pageMarginLeft, pageMarginTop, pageMarginRight)
	doc.SetAutoPageBreak(true, pageMarginBottom)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	usableWidth := pageWidth - pageMarginLeft - pageMarginRight
	translate := doc.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		switch classifyLine(line) {
		case lineTitle:
			doc.Ln(2)
			doc.SetFont("Helvetica", "B", titleFontSize)
			doc.MultiCell(usableWidth, 8, translate(line), "", "C", false)
			doc.Ln(3)
		case lineSection:
			doc.Ln(3)
			doc.SetFont("Helvetica", "B", sectionFontSize)
			doc.MultiCell(usableWidth, 7, translate(line), "", "L", false)
			doc.Ln(1.5)
		case lineTerm:
			doc.SetFont("Helvetica", "", bodyFontSize)
			doc.MultiCell(usableWidth, bodyLineHeight, translate(line), "", "L", false)
			doc.Ln(1)
		case lineBlank:
			doc.Ln(3)
		default:
			doc.SetFont("Helvetica", "", bodyFontSize)
			doc.MultiCell(usableWidth, bodyLineHeight, translate(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

type lineKind int

const (
	lineBody lineKind = iota
	lineTitle
	lineSection
	lineTerm
	lineBlank
)

func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineBlank
	}
	if strings.Contains(trimmed, titleKeyword) && len(trimmed) <= len(titleKeyword)+10 {
		return lineTitle
	}
	for _, heading := range sectionHeadings {
		if trimmed == heading {
			return lineSection
		}
	}
	if isNumberedTerm(trimmed) || strings.HasPrefix(trimmed, "•") {
		return lineTerm
	}
	return lineBody
}

func isNumberedTerm(line string) bool {
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{value: r}
}

type panicError struct{ value any }

func (e *panicError) Error() string { return fmt.Sprintf("renderer panic: %v", e.value) }
