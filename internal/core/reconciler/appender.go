package reconciler

import (
	"errors"

	"reconciler-service/internal/domain"

	"go.uber.org/zap"
)

// AppendNewAccounts writes each account at the next free row after the
// current last used row of the account column, re-queried at call time so an
// earlier mutation in the same run cannot leave a stale cursor. The cursor
// advances only when the account-name cell is written; a row that received no
// data is reused by the next account, so appended rows stay contiguous.
// Highlighting failures downgrade the result to partial success; written
// values are never rolled back.
func (s *service) AppendNewAccounts(sheet string, spec domain.ColumnSpec, accounts []domain.AccountRecord) (*domain.AppendResult, error) {
	cols, err := ResolveMapping(s.grid, sheet, spec)
	if err != nil {
		return nil, err
	}

	row, err := s.grid.LastUsedRow(sheet, cols.Account)
	if err != nil {
		return nil, err
	}
	s.log.Info("appending new accounts", zap.String("sheet", sheet),
		zap.Int("count", len(accounts)), zap.Int("first_row", row+1))

	result := &domain.AppendResult{Status: domain.AppendSuccess, HighlightedRows: []int{}}
	appended := make([]domain.AccountRecord, 0, len(accounts))

	for _, acc := range accounts {
		next := row + 1

		if err := s.grid.WriteCell(sheet, cols.Account, next, acc.Name); err != nil {
			if errors.Is(err, domain.ErrSpreadsheetUnavailable) {
				return nil, err
			}
			s.log.Warn("append write failed", zap.String("account", acc.Name), zap.Int("row", next), zap.Error(err))
			continue
		}
		row = next
		if acc.Current.Valid {
			if err := s.grid.WriteCell(sheet, cols.CurrentYear, row, acc.Current.Decimal.InexactFloat64()); err != nil {
				if errors.Is(err, domain.ErrSpreadsheetUnavailable) {
					return nil, err
				}
				s.log.Warn("append write failed", zap.String("account", acc.Name), zap.Int("row", row), zap.Error(err))
			}
		}
		if acc.Prior.Valid {
			if err := s.grid.WriteCell(sheet, cols.PriorYear, row, acc.Prior.Decimal.InexactFloat64()); err != nil {
				if errors.Is(err, domain.ErrSpreadsheetUnavailable) {
					return nil, err
				}
				s.log.Warn("append write failed", zap.String("account", acc.Name), zap.Int("row", row), zap.Error(err))
			}
		}

		result.AccountsAdded++
		result.HighlightedRows = append(result.HighlightedRows, row)
		written := acc
		written.Row = row
		appended = append(appended, written)
	}

	for _, acc := range appended {
		for _, col := range []string{cols.Account, cols.CurrentYear, cols.PriorYear} {
			if err := s.grid.HighlightCell(sheet, col, acc.Row); err != nil {
				result.Status = domain.AppendPartial
				s.log.Warn("could not highlight new account", zap.String("account", acc.Name),
					zap.Int("row", acc.Row), zap.Error(err))
			}
		}
	}

	result.Verification = VerifyAppended(s.grid, sheet, cols, appended)
	if result.Verification.Verified {
		s.log.Info("append verification passed", zap.Int("verified", result.Verification.VerifiedCount))
	} else {
		s.log.Warn("append verification failed", zap.Int("failed", len(result.Verification.FailedItems)))
	}
	return result, nil
}
