package inspector

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Account Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Current Balance"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "Prior Balance"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Cash Account"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "Wages Payable"))
	// too short to count as an account
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "Cash"))
	// marker-excluded
	require.NoError(t, f.SetCellValue("Sheet1", "A5", "^Suspense Account"))
	// numeric first cell
	require.NoError(t, f.SetCellValue("Sheet1", "A6", 12345.67))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "free text"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestInspectWorkbook(t *testing.T) {
	svc := NewService(zap.NewNop())

	report, err := svc.Inspect(bytes.NewReader(workbookBytes(t)), "balancete.xlsx")
	require.NoError(t, err)
	require.Len(t, report.Sheets, 2)

	sheet := report.Sheets[0]
	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, 6, sheet.Rows)
	assert.Equal(t, 3, sheet.Columns)
	assert.Equal(t, []string{"Account Name", "Current Balance", "Prior Balance"}, sheet.Headers)
	assert.Equal(t, []string{"A"}, sheet.AccountColumns)
	assert.Equal(t, []string{"B", "C"}, sheet.AmountColumns)
	// header row is counted: "Account Name" passes the same first-cell policy
	assert.Equal(t, 3, sheet.AccountCount)

	notes := report.Sheets[1]
	assert.Equal(t, "Notes", notes.Name)
	assert.Equal(t, 1, notes.Rows)
	assert.Equal(t, 0, notes.AccountCount)
}

func TestInspectRejectsGarbage(t *testing.T) {
	svc := NewService(zap.NewNop())

	_, err := svc.Inspect(strings.NewReader("not a workbook"), "balancete.xls")
	assert.Error(t, err)
}
