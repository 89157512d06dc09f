package reconciler

import (
	"testing"

	"reconciler-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchFor(name string, row int, current, prior decimal.NullDecimal) domain.MatchRecord {
	return domain.MatchRecord{
		Source: domain.AccountRecord{Name: name, Row: row},
		Target: domain.AccountRecord{Name: name, Current: current, Prior: prior},
	}
}

func TestVerifyUpdatesReportsMismatch(t *testing.T) {
	f, g := newTestGrid(t)
	// the sheet holds a value the update pass did not write
	require.NoError(t, f.SetCellValue("Sheet1", "B5", 1400))
	require.NoError(t, f.SetCellValue("Sheet1", "C5", 900))

	matches := []domain.MatchRecord{
		matchFor("Wages Payable", 5, amount("1500"), amount("900")),
	}

	report := VerifyUpdates(g, "Sheet1", testMapping, matches)

	assert.False(t, report.Verified)
	assert.Equal(t, 1, report.VerifiedCount)
	require.Len(t, report.FailedItems, 1)
	fail := report.FailedItems[0]
	assert.Equal(t, "Wages Payable", fail.AccountName)
	assert.Equal(t, 5, fail.Row)
	assert.Equal(t, domain.FieldCurrentYear, fail.Field)
	assert.Equal(t, "1500", fail.Expected)
	assert.Equal(t, "1400", fail.Actual)
}

func TestVerifyUpdatesSkipsAbsentFields(t *testing.T) {
	_, g := newTestGrid(t)

	matches := []domain.MatchRecord{
		matchFor("Wages Payable", 5, decimal.NullDecimal{}, decimal.NullDecimal{}),
	}

	report := VerifyUpdates(g, "Sheet1", testMapping, matches)
	assert.True(t, report.Verified)
	assert.Equal(t, 0, report.VerifiedCount)
}

func TestVerifyAppendedByAddress(t *testing.T) {
	f, g := newTestGrid(t)
	require.NoError(t, f.SetCellValue("Sheet1", "A11", "Misc Expense"))

	appended := []domain.AccountRecord{
		{Name: "Misc Expense", Row: 11},
		{Name: "Deferred Revenue", Row: 12},
	}

	report := VerifyAppended(g, "Sheet1", testMapping, appended)

	assert.False(t, report.Verified)
	assert.Equal(t, 1, report.VerifiedCount)
	require.Len(t, report.FailedItems, 1)
	assert.Equal(t, "Deferred Revenue", report.FailedItems[0].AccountName)
	assert.Equal(t, 12, report.FailedItems[0].Row)
	assert.Equal(t, domain.FieldAccountName, report.FailedItems[0].Field)
}
