package composer

import (
	"bytes"

	docx "github.com/fumiama/go-docx"

	"github.com/banguela/school-admin/internal/core/domain"
)

func composeDOCX(req domain.ComposeRequest) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	heading := doc.AddParagraph()
	heading.AddText(req.Title).Size("36").Bold()

	// One flowing paragraph, never truncated.
	doc.AddParagraph().AddText(req.BodyText)

	if req.Table != nil && len(req.Table.Header) > 0 {
		table := doc.AddTable(len(req.Table.Rows)+1, len(req.Table.Header), 0, nil)
		for col, cell := range req.Table.Header {
			table.TableRows[0].TableCells[col].AddParagraph().AddText(cell).Bold()
		}
		for rowIdx, row := range req.Table.Rows {
			for col, cell := range row {
				if col >= len(req.Table.Header) {
					break
				}
				table.TableRows[rowIdx+1].TableCells[col].AddParagraph().AddText(cell)
			}
		}
	}

	for _, chart := range req.Charts {
		doc.AddParagraph().AddText(chart.Title).Bold()
		if _, err := doc.AddParagraph().AddInlineDrawing(chart.PNG); err != nil {
			return nil, domain.WrapError(domain.ErrComposition, "compose docx", err)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, domain.WrapError(domain.ErrComposition, "compose docx", err)
	}
	return buf.Bytes(), nil
}
