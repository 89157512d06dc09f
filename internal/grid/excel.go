package grid

import (
	"fmt"
	"io"
	"strings"

	"reconciler-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// highlightFill is the bright yellow used to flag appended rows.
const highlightFill = "FFFF00"

// Excel is the excelize-backed Accessor over one open .xlsx workbook.
type Excel struct {
	file           *excelize.File
	highlightStyle int
}

// NewExcel wraps an already opened workbook.
func NewExcel(f *excelize.File) *Excel {
	return &Excel{file: f}
}

// OpenReader opens a workbook from a stream and wraps it.
func OpenReader(r io.Reader) (*Excel, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", domain.ErrSpreadsheetUnavailable)
	}
	return NewExcel(f), nil
}

// File exposes the underlying workbook so callers can save it after a run.
// The accessor never decides when to persist.
func (g *Excel) File() *excelize.File {
	return g.file
}

func (g *Excel) checkSheet(sheet string) error {
	if g.file == nil {
		return domain.ErrSpreadsheetUnavailable
	}
	idx, err := g.file.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return fmt.Errorf("sheet %q: %w", sheet, domain.ErrSpreadsheetUnavailable)
	}
	return nil
}

func cellName(col string, row int) (string, error) {
	idx, err := LetterToIndex(col)
	if err != nil {
		return "", err
	}
	return excelize.CoordinatesToCellName(idx+1, row)
}

func (g *Excel) ReadCell(sheet, col string, row int) (string, error) {
	if err := g.checkSheet(sheet); err != nil {
		return "", err
	}
	cell, err := cellName(col, row)
	if err != nil {
		return "", err
	}
	return g.file.GetCellValue(sheet, cell)
}

func (g *Excel) WriteCell(sheet, col string, row int, value any) error {
	if err := g.checkSheet(sheet); err != nil {
		return err
	}
	cell, err := cellName(col, row)
	if err != nil {
		return err
	}
	return g.file.SetCellValue(sheet, cell, value)
}

func (g *Excel) IsBold(sheet, col string, row int) (bool, error) {
	if err := g.checkSheet(sheet); err != nil {
		return false, err
	}
	cell, err := cellName(col, row)
	if err != nil {
		return false, err
	}
	styleID, err := g.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, nil
	}
	style, err := g.file.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return false, nil
	}
	return style.Font.Bold, nil
}

func (g *Excel) HighlightCell(sheet, col string, row int) error {
	if err := g.checkSheet(sheet); err != nil {
		return err
	}
	cell, err := cellName(col, row)
	if err != nil {
		return err
	}
	if g.highlightStyle == 0 {
		id, err := g.file.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{highlightFill}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("create highlight style: %w", err)
		}
		g.highlightStyle = id
	}
	return g.file.SetCellStyle(sheet, cell, cell, g.highlightStyle)
}

func (g *Excel) LastUsedRow(sheet, col string) (int, error) {
	if err := g.checkSheet(sheet); err != nil {
		return 0, err
	}
	idx, err := LetterToIndex(col)
	if err != nil {
		return 0, err
	}
	cols, err := g.file.GetCols(sheet)
	if err != nil {
		return 0, err
	}
	if idx >= len(cols) {
		return 0, nil
	}
	last := 0
	for i, v := range cols[idx] {
		if strings.TrimSpace(v) != "" {
			last = i + 1
		}
	}
	return last, nil
}

func (g *Excel) SheetNames() ([]string, error) {
	if g.file == nil {
		return nil, domain.ErrSpreadsheetUnavailable
	}
	return g.file.GetSheetList(), nil
}

func (g *Excel) Row1Headers(sheet string) ([]string, error) {
	if err := g.checkSheet(sheet); err != nil {
		return nil, err
	}
	rows, err := g.file.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// BeginBulkUpdate forces manual calculation for the write batch. The restore
// func re-applies the previous calc mode and marks the workbook for a full
// recalculation on next open, since excelize does not evaluate formulas.
func (g *Excel) BeginBulkUpdate() (func(), error) {
	if g.file == nil {
		return nil, domain.ErrSpreadsheetUnavailable
	}
	prev, err := g.file.GetCalcProps()
	if err != nil {
		return nil, fmt.Errorf("read calc props: %w", err)
	}
	manual := "manual"
	if err := g.file.SetCalcProps(&excelize.CalcPropsOptions{CalcMode: &manual}); err != nil {
		return nil, fmt.Errorf("suspend recalculation: %w", err)
	}
	restore := func() {
		fullCalc := true
		prev.FullCalcOnLoad = &fullCalc
		_ = g.file.SetCalcProps(&prev)
	}
	return restore, nil
}
