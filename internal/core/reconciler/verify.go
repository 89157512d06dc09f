package reconciler

import (
	"strings"

	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"github.com/shopspring/decimal"
)

// VerifyUpdates re-reads every cell an update pass wrote and compares by
// exact value equality. Only fields the reference actually carried are
// checked. Mismatches come back as report data; verification never mutates
// and never raises.
func VerifyUpdates(g grid.Accessor, sheet string, cols domain.ColumnMapping, matches []domain.MatchRecord) domain.VerificationReport {
	report := domain.VerificationReport{Verified: true, FailedItems: []domain.VerificationFailure{}}

	check := func(m domain.MatchRecord, col, field string, expected decimal.NullDecimal) {
		if !expected.Valid {
			return
		}
		actual, err := g.ReadCell(sheet, col, m.Source.Row)
		if err == nil {
			if d, perr := decimal.NewFromString(strings.TrimSpace(actual)); perr == nil && d.Equal(expected.Decimal) {
				report.VerifiedCount++
				return
			}
		}
		report.Verified = false
		report.FailedItems = append(report.FailedItems, domain.VerificationFailure{
			AccountName: m.Source.Name,
			Row:         m.Source.Row,
			Field:       field,
			Expected:    expected.Decimal.String(),
			Actual:      actual,
		})
	}

	for _, m := range matches {
		check(m, cols.CurrentYear, domain.FieldCurrentYear, m.Target.Current)
		check(m, cols.PriorYear, domain.FieldPriorYear, m.Target.Prior)
	}
	return report
}

// VerifyAppended confirms each appended account is present by reading its
// name cell back and comparing clean keys. Appended rows carry the highlight
// bold marker, so a filtered re-extraction would hide them; the read-back by
// address sidesteps that.
func VerifyAppended(g grid.Accessor, sheet string, cols domain.ColumnMapping, appended []domain.AccountRecord) domain.VerificationReport {
	report := domain.VerificationReport{Verified: true, FailedItems: []domain.VerificationFailure{}}

	for _, acc := range appended {
		actual, err := g.ReadCell(sheet, cols.Account, acc.Row)
		if err == nil && CleanKey(actual) == CleanKey(acc.Name) {
			report.VerifiedCount++
			continue
		}
		report.Verified = false
		report.FailedItems = append(report.FailedItems, domain.VerificationFailure{
			AccountName: acc.Name,
			Row:         acc.Row,
			Field:       domain.FieldAccountName,
			Expected:    acc.Name,
			Actual:      actual,
		})
	}
	return report
}
