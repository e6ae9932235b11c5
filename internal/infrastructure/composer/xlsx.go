package composer

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/banguela/school-admin/internal/core/domain"
)

const rosterSheet = "Estudantes"

// composeXLSX writes the student roster as a spreadsheet: a header row plus
// one row per record, including the computed average.
func composeXLSX(req domain.ComposeRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, domain.WrapError(domain.ErrComposition, "compose xlsx", err)
	}

	header := []any{"Matrícula", "Nome", "1ª Nota", "2ª Nota", "Média"}
	if err := f.SetSheetRow(rosterSheet, "A1", &header); err != nil {
		return nil, domain.WrapError(domain.ErrComposition, "compose xlsx", err)
	}

	for i, s := range req.Students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, domain.WrapError(domain.ErrComposition, "compose xlsx", err)
		}
		row := []any{strconv.FormatInt(s.ID, 10), s.Name, s.ScoreA, s.ScoreB, s.Average()}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, domain.WrapError(domain.ErrComposition, "compose xlsx", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, domain.WrapError(domain.ErrComposition, "compose xlsx", err)
	}
	return buf.Bytes(), nil
}
