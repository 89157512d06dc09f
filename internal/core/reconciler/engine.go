package reconciler

import (
	"errors"

	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"go.uber.org/zap"
)

// Service define a interface para o motor de reconciliação de balancetes.
type Service interface {
	// Reconcile runs a full update pass and returns the structured result.
	Reconcile(params domain.ReconcileParams) (*domain.ReconciliationResult, error)
	// Preview runs extraction and matching only; the workbook is not mutated.
	Preview(params domain.ReconcileParams) (*domain.ReconciliationResult, error)
	// AppendNewAccounts writes unmatched reference rows to the end of a sheet.
	AppendNewAccounts(sheet string, spec domain.ColumnSpec, accounts []domain.AccountRecord) (*domain.AppendResult, error)
}

type service struct {
	grid      grid.Accessor
	extractor *Extractor
	log       *zap.Logger
}

// NewService cria uma nova instância do motor sobre um workbook aberto.
func NewService(g grid.Accessor, log *zap.Logger) Service {
	return &service{grid: g, extractor: NewExtractor(g, log), log: log}
}

// runState holds everything shared between Preview and Reconcile.
type runState struct {
	params       domain.ReconcileParams
	toUpdateCols domain.ColumnMapping
	reference    []domain.AccountRecord
	matches      []domain.MatchRecord
}

func validateParams(p domain.ReconcileParams) error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	require("toUpdateSheet", p.ToUpdateSheet)
	require("referenceSheet", p.ReferenceSheet)
	require("toUpdateAccountCol", p.ToUpdateColumns.Account)
	require("toUpdateCurrentCol", p.ToUpdateColumns.CurrentYear)
	require("toUpdatePriorCol", p.ToUpdateColumns.PriorYear)
	require("referenceAccountCol", p.ReferenceColumns.Account)
	require("referenceCurrentCol", p.ReferenceColumns.CurrentYear)
	require("referencePriorCol", p.ReferenceColumns.PriorYear)
	if len(missing) > 0 {
		return &domain.MissingParametersError{Missing: missing}
	}
	return nil
}

// prepare validates, resolves columns, extracts both sheets, and matches.
// Everything here happens before any mutation, so fatal errors abort clean.
func (s *service) prepare(p domain.ReconcileParams) (*runState, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}

	toUpdateCols, err := ResolveMapping(s.grid, p.ToUpdateSheet, p.ToUpdateColumns)
	if err != nil {
		return nil, err
	}
	referenceCols, err := ResolveMapping(s.grid, p.ReferenceSheet, p.ReferenceColumns)
	if err != nil {
		return nil, err
	}

	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	toUpdate, err := s.extractor.Extract(p.ToUpdateSheet, toUpdateCols, p.ToUpdateRange)
	if err != nil {
		return nil, err
	}
	reference, err := s.extractor.Extract(p.ReferenceSheet, referenceCols, p.ReferenceRange)
	if err != nil {
		return nil, err
	}
	s.log.Info("accounts extracted",
		zap.String("to_update_sheet", p.ToUpdateSheet), zap.Int("to_update_accounts", len(toUpdate)),
		zap.String("reference_sheet", p.ReferenceSheet), zap.Int("reference_accounts", len(reference)))

	matches := Matcher{Threshold: threshold, ConsumeTargets: p.ConsumeTargets}.Match(toUpdate, reference)
	s.log.Info("matching finished", zap.Int("matches", len(matches)), zap.Float64("threshold", threshold))

	return &runState{
		params:       p,
		toUpdateCols: toUpdateCols,
		reference:    reference,
		matches:      matches,
	}, nil
}

// newAccounts is the set difference by clean key: reference records whose
// clean key received no match.
func newAccounts(reference []domain.AccountRecord, matches []domain.MatchRecord) []domain.AccountRecord {
	matched := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		matched[CleanKey(m.Target.Name)] = struct{}{}
	}
	out := []domain.AccountRecord{}
	for _, r := range reference {
		if _, ok := matched[CleanKey(r.Name)]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *service) Preview(p domain.ReconcileParams) (*domain.ReconciliationResult, error) {
	st, err := s.prepare(p)
	if err != nil {
		return nil, err
	}
	return &domain.ReconciliationResult{
		Matches:      st.matches,
		NewAccounts:  newAccounts(st.reference, st.matches),
		Verification: domain.VerificationReport{Verified: true, FailedItems: []domain.VerificationFailure{}},
	}, nil
}

func (s *service) Reconcile(p domain.ReconcileParams) (*domain.ReconciliationResult, error) {
	st, err := s.prepare(p)
	if err != nil {
		return nil, err
	}

	updates, err := s.writeMatches(st)
	if err != nil {
		return nil, err
	}

	report := VerifyUpdates(s.grid, p.ToUpdateSheet, st.toUpdateCols, st.matches)
	if report.Verified {
		s.log.Info("update verification passed", zap.Int("verified", report.VerifiedCount))
	} else {
		s.log.Warn("update verification failed", zap.Int("failed", len(report.FailedItems)))
	}

	return &domain.ReconciliationResult{
		UpdatesMade:  updates,
		Matches:      st.matches,
		NewAccounts:  newAccounts(st.reference, st.matches),
		Verification: report,
	}, nil
}

// writeMatches applies the matched amounts inside the bulk-mutation scope.
// The restore runs on every exit path. A field is skipped when the reference
// amount is absent; an individual write failure is logged and the loop
// continues. Only store unavailability aborts.
func (s *service) writeMatches(st *runState) (int, error) {
	restore, err := s.grid.BeginBulkUpdate()
	if err != nil {
		return 0, err
	}
	defer restore()

	sheet := st.params.ToUpdateSheet
	updates := 0
	for _, m := range st.matches {
		wrote := false

		if m.Target.Current.Valid {
			err := s.grid.WriteCell(sheet, st.toUpdateCols.CurrentYear, m.Source.Row, m.Target.Current.Decimal.InexactFloat64())
			switch {
			case errors.Is(err, domain.ErrSpreadsheetUnavailable):
				return updates, err
			case err != nil:
				s.log.Warn("write failed", zap.String("account", m.Source.Name),
					zap.Int("row", m.Source.Row), zap.String("field", domain.FieldCurrentYear), zap.Error(err))
			default:
				wrote = true
			}
		}

		if m.Target.Prior.Valid {
			err := s.grid.WriteCell(sheet, st.toUpdateCols.PriorYear, m.Source.Row, m.Target.Prior.Decimal.InexactFloat64())
			switch {
			case errors.Is(err, domain.ErrSpreadsheetUnavailable):
				return updates, err
			case err != nil:
				s.log.Warn("write failed", zap.String("account", m.Source.Name),
					zap.Int("row", m.Source.Row), zap.String("field", domain.FieldPriorYear), zap.Error(err))
			default:
				wrote = true
			}
		}

		if wrote {
			updates++
		}
	}
	return updates, nil
}
