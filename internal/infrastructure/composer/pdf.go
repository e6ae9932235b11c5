package composer

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/banguela/school-admin/internal/core/domain"
)

func composePDF(req domain.ComposeRequest) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetTitle(req.Title, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	// Core fonts are cp1252; accented Portuguese text needs the translator.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 18)
	doc.MultiCell(0, 9, tr(req.Title), "", "C", false)
	doc.Ln(4)

	if req.BodyText != "" {
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 5, tr(req.BodyText), "", "L", false)
		doc.Ln(4)
	}

	if req.Table != nil {
		writePDFTable(doc, tr, req.Table)
	}

	for i, chart := range req.Charts {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 13)
		doc.MultiCell(0, 8, tr(chart.Title), "", "L", false)

		opts := fpdf.ImageOptions{ImageType: "PNG"}
		name := fmt.Sprintf("chart-%d", i)
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(chart.PNG))
		// ~400x300 logical units scaled to the printable width.
		doc.ImageOptions(name, 15, doc.GetY(), 140, 105, true, opts, 0, "")
	}

	if doc.Err() {
		return nil, domain.WrapError(domain.ErrComposition, "compose pdf", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, domain.WrapError(domain.ErrComposition, "compose pdf", err)
	}
	return buf.Bytes(), nil
}

func writePDFTable(doc *fpdf.Fpdf, tr func(string) string, table *domain.Table) {
	if len(table.Header) == 0 {
		return
	}
	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Header))

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(178, 34, 34)
	doc.SetTextColor(255, 255, 255)
	for _, cell := range table.Header {
		doc.CellFormat(colWidth, 7, tr(cell), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	fill := false
	for _, row := range table.Rows {
		doc.SetFillColor(245, 238, 222)
		for i, cell := range row {
			if i >= len(table.Header) {
				break
			}
			doc.CellFormat(colWidth, 6, tr(cell), "1", 0, "C", fill, 0, "")
		}
		doc.Ln(-1)
		fill = !fill
	}
	doc.Ln(2)
}
