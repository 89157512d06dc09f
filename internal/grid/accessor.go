// Package grid abstracts cell-level access to an open workbook. The
// reconciliation core depends only on the Accessor interface; the excelize
// backend lives in excel.go.
package grid

// Accessor is the boundary to the backing spreadsheet store. Implementations
// report domain.ErrSpreadsheetUnavailable when no workbook or sheet is
// reachable; row-level oddities are never promoted to that error.
type Accessor interface {
	// ReadCell returns the cell value as displayed, "" for an empty cell.
	ReadCell(sheet, col string, row int) (string, error)
	// WriteCell sets the cell value.
	WriteCell(sheet, col string, row int, value any) error
	// IsBold reports whether the cell font is bold. When formatting cannot
	// be determined it reports false rather than an error.
	IsBold(sheet, col string, row int) (bool, error)
	// HighlightCell marks a cell for operator review (bold + fill).
	HighlightCell(sheet, col string, row int) error
	// LastUsedRow returns the last occupied row in a column, 0 when empty.
	LastUsedRow(sheet, col string) (int, error)
	// SheetNames lists the workbook's sheets in order.
	SheetNames() ([]string, error)
	// Row1Headers returns the header row of a sheet.
	Row1Headers(sheet string) ([]string, error)
	// BeginBulkUpdate suspends recalculation for a batch of writes and
	// returns the restore func. Callers must defer restore so the store is
	// left in a normal state on every exit path.
	BeginBulkUpdate() (restore func(), err error)
}
