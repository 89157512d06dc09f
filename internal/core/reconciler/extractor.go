package reconciler

import (
	"errors"
	"strings"
	"unicode/utf8"

	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Rows whose trimmed name is this short are stray codes, not accounts.
const minNameLength = 5

// excludedRowMarker flags rows excluded upstream.
const excludedRowMarker = "^"

// Extractor scans a sheet through the grid and collects qualifying account
// rows.
type Extractor struct {
	grid grid.Accessor
	log  *zap.Logger
}

// NewExtractor creates an extractor over the given grid.
func NewExtractor(g grid.Accessor, log *zap.Logger) *Extractor {
	return &Extractor{grid: g, log: log}
}

// Extract returns the sheet's account records in ascending row order. The
// range defaults to rows 2..last-used-row of the account column; row 1 is
// headers. A bad row is skipped, never fatal; only store unavailability
// propagates.
func (e *Extractor) Extract(sheet string, cols domain.ColumnMapping, rng *domain.RowRange) ([]domain.AccountRecord, error) {
	last, err := e.grid.LastUsedRow(sheet, cols.Account)
	if err != nil {
		return nil, err
	}

	start := 2
	end := last
	if rng != nil {
		if rng.StartRow > start {
			start = rng.StartRow
		}
		if rng.EndRow > 0 && rng.EndRow < end {
			end = rng.EndRow
		}
	}

	var records []domain.AccountRecord
	for row := start; row <= end; row++ {
		raw, err := e.grid.ReadCell(sheet, cols.Account, row)
		if err != nil {
			if errors.Is(err, domain.ErrSpreadsheetUnavailable) {
				return nil, err
			}
			e.log.Debug("skipping unreadable row", zap.String("sheet", sheet), zap.Int("row", row), zap.Error(err))
			continue
		}

		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		bold, err := e.grid.IsBold(sheet, cols.Account, row)
		if err != nil {
			return nil, err
		}
		if bold {
			// bold account cells are subtotal/header rows
			continue
		}
		if utf8.RuneCountInString(name) <= minNameLength {
			continue
		}
		if _, err := decimal.NewFromString(name); err == nil {
			// purely numeric cells are codes, not account names
			continue
		}
		if strings.HasPrefix(name, excludedRowMarker) {
			continue
		}

		rec := domain.AccountRecord{Name: name, Row: row}
		if rec.Current, err = e.readAmount(sheet, cols.CurrentYear, row); err != nil {
			return nil, err
		}
		if rec.Prior, err = e.readAmount(sheet, cols.PriorYear, row); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// readAmount reads one amount cell independently of the account-name
// decision. Bold, empty, or non-numeric cells yield an absent amount, never
// zero; the error return is reserved for store unavailability.
func (e *Extractor) readAmount(sheet, col string, row int) (decimal.NullDecimal, error) {
	bold, err := e.grid.IsBold(sheet, col, row)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if bold {
		return decimal.NullDecimal{}, nil
	}
	raw, err := e.grid.ReadCell(sheet, col, row)
	if err != nil {
		if errors.Is(err, domain.ErrSpreadsheetUnavailable) {
			return decimal.NullDecimal{}, err
		}
		return decimal.NullDecimal{}, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
