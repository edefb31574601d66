package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pdfMargin   = 12.0
	pdfRowH     = 7.0
	pdfFontSize = 9.0
)

// writePDF renders t as a landscape A4 table with a repeated header row.
func writePDF(w io.Writer, t Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	title := t.Sheet
	if title == "" {
		title = "Report"
	}
	widths := pdfColumnWidths(pdf, t)

	header := func() {
		pdf.SetFont("Arial", "B", pdfFontSize)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], pdfRowH, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", pdfFontSize)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	_, pageH := pdf.GetPageSize()
	for r, row := range t.Rows {
		if pdf.GetY()+pdfRowH > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}
		fill := r%2 == 1
		pdf.SetFillColor(242, 242, 242)
		for c := range t.Columns {
			var v any
			if c < len(row) {
				v = row[c]
			}
			align := "L"
			if _, ok := v.(decimal.Decimal); ok {
				align = "R"
			}
			pdf.CellFormat(widths[c], pdfRowH, truncateCell(pdf, formatValue(v), widths[c]), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// pdfColumnWidths sizes columns by content and scales them to the page.
func pdfColumnWidths(pdf *gofpdf.Fpdf, t Table) []float64 {
	pageW, _ := pdf.GetPageSize()
	avail := pageW - 2*pdfMargin
	widths := make([]float64, len(t.Columns))
	if len(widths) == 0 {
		return widths
	}

	pdf.SetFont("Arial", "B", pdfFontSize)
	total := 0.0
	for i, col := range t.Columns {
		widths[i] = pdf.GetStringWidth(col) + 4
	}
	pdf.SetFont("Arial", "", pdfFontSize)
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i >= len(row) {
				break
			}
			if n := pdf.GetStringWidth(formatValue(row[i])) + 4; n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, w := range widths {
		total += w
	}
	scale := avail / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}

func truncateCell(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s)+2 <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...")+2 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
