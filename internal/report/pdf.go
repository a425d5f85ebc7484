package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin = 15.0
	lineH     = 5.5
)

// PDF renders the report as a letter-size document.
func PDF(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("AI Assessment Report: "+d.Company.Name, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, tr("AI Assessment Report: "+d.Company.Name), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	meta := []string{"Company type: " + string(d.Company.Type)}
	if d.Company.AnnualRevenue != "" {
		meta = append(meta, "Revenue: "+d.Company.AnnualRevenue)
	}
	if d.Company.EmployeeCount != "" {
		meta = append(meta, "Employees: "+d.Company.EmployeeCount)
	}
	if d.Company.NAICSCodes != "" {
		meta = append(meta, "NAICS: "+d.Company.NAICSCodes)
	}
	meta = append(meta, "Generated: "+d.GeneratedAt.Format("2006-01-02 15:04 MST"))
	for _, m := range meta {
		pdf.MultiCell(0, lineH, tr(m), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Overall AI Score: "+d.OverallText(), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// section score table
	pageW, _ := pdf.GetPageSize()
	w := pageW - 2*pdfMargin
	scoreW := 30.0
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(w-scoreW, 8, "Section", "1", 0, "L", true, 0, "")
	pdf.CellFormat(scoreW, 8, "Score", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, s := range d.Sections {
		score := s.ScoreText()
		if s.Stale && s.Scored {
			score += " *"
		}
		pdf.CellFormat(w-scoreW, 7, tr(s.Title), "1", 0, "L", true, 0, "")
		pdf.CellFormat(scoreW, 7, score, "1", 1, "L", true, 0, "")
	}
	if hasStale(d.Sections) {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, "* answers changed since this score was computed", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	for _, s := range d.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, tr(s.Title), "", "L", false)
		pdf.Ln(1)
		for _, a := range s.Answers {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, lineH, tr("Q: "+a.Question), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, lineH, tr("A: "+a.Answer), "", "L", false)
			pdf.Ln(1.5)
		}
		pdf.Ln(4)
	}

	if len(d.Plans) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, "Get-Well Plans", "", 1, "L", false, 0, "")
		for _, p := range d.Plans {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(p.Title), "", "L", false)
			writeMarkdown(pdf, tr, p.Text)
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func hasStale(sections []Section) bool {
	for _, s := range sections {
		if s.Stale && s.Scored {
			return true
		}
	}
	return false
}

// writeMarkdown lays out the subset of markdown plans use: headings,
// bullets, bold lines and rules.
func writeMarkdown(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			pdf.Ln(2)
		case strings.HasPrefix(line, "---"):
			pdf.Ln(4)
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			size := 13.0 - float64(level)
			if size < 10 {
				size = 10
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 6, tr(stripEmphasis(strings.TrimSpace(line[level:]))), "", "L", false)
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, lineH, tr("• "+stripEmphasis(strings.TrimSpace(line[2:]))), "", "L", false)
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, lineH, tr(strings.TrimSpace(line[2:len(line)-2])), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, lineH, tr(stripEmphasis(line)), "", "L", false)
		}
	}
}

func stripEmphasis(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "**", ""), "__", "")
}
