// package domain/models.go
package domain

import (
	"github.com/shopspring/decimal"
)

// AppendStatus defines the outcome class of an append operation.
type AppendStatus string

// Constants for append outcomes.
const (
	AppendSuccess AppendStatus = "success"
	AppendPartial AppendStatus = "partial_success"
)

// Field names used in verification reports.
const (
	FieldCurrentYear = "current_year"
	FieldPriorYear   = "prior_year"
	FieldAccountName = "account_name"
)

// AccountRecord is one qualifying row extracted from a trial balance sheet.
// Identity is the row plus the name; two rows with the same name stay distinct.
type AccountRecord struct {
	Name    string              `json:"account_name"`
	Row     int                 `json:"row"`
	Current decimal.NullDecimal `json:"amount_current"`
	Prior   decimal.NullDecimal `json:"amount_prior"`
}

// ColumnMapping holds the resolved column letters for one sheet.
type ColumnMapping struct {
	Account     string `json:"account"`
	CurrentYear string `json:"current_year"`
	PriorYear   string `json:"prior_year"`
}

// RowRange bounds extraction. EndRow 0 means "to the last used row".
type RowRange struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
}

// MatchRecord pairs a to-update row with its reference counterpart.
type MatchRecord struct {
	Source AccountRecord `json:"source"`
	Target AccountRecord `json:"target"`
	Score  float64       `json:"score"`
}

// VerificationFailure is one itemized mismatch from a verification pass.
type VerificationFailure struct {
	AccountName string `json:"account_name"`
	Row         int    `json:"row"`
	Field       string `json:"field"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
}

// VerificationReport is the read-back check result. Mismatches are data,
// never errors.
type VerificationReport struct {
	Verified      bool                  `json:"verified"`
	VerifiedCount int                   `json:"verified_count"`
	FailedItems   []VerificationFailure `json:"failed_items"`
}

// ReconciliationResult is the structured outcome of one reconciliation run.
type ReconciliationResult struct {
	UpdatesMade  int                `json:"updates_made"`
	Matches      []MatchRecord      `json:"matches"`
	NewAccounts  []AccountRecord    `json:"new_accounts"`
	Verification VerificationReport `json:"verification"`
}

// AppendResult is the structured outcome of appending new accounts.
type AppendResult struct {
	Status          AppendStatus       `json:"status"`
	AccountsAdded   int                `json:"accounts_added"`
	HighlightedRows []int              `json:"highlighted_rows"`
	Verification    VerificationReport `json:"verification"`
}

// ColumnSpec identifies the three columns of one sheet, each either by letter
// ("A", "AB") or by row-1 header title ("Account Name").
type ColumnSpec struct {
	Account     string
	CurrentYear string
	PriorYear   string
}

// ReconcileParams carries everything one run needs. Column specs are resolved
// to a ColumnMapping before extraction.
type ReconcileParams struct {
	ToUpdateSheet    string
	ReferenceSheet   string
	ToUpdateColumns  ColumnSpec
	ReferenceColumns ColumnSpec
	ToUpdateRange    *RowRange
	ReferenceRange   *RowRange
	// Threshold is the minimum accepted similarity on the 0-100 scale. Zero
	// or negative means "use the engine default".
	Threshold float64
	// ConsumeTargets removes a reference row from the candidate pool once
	// matched, so it can be consumed at most once per run.
	ConsumeTargets bool
}

// --- Workbook inspection ---

// SheetInspection summarizes the structure of one sheet.
type SheetInspection struct {
	Name           string   `json:"name"`
	Rows           int      `json:"rows"`
	Columns        int      `json:"columns"`
	Headers        []string `json:"headers"`
	AccountColumns []string `json:"account_columns"`
	AmountColumns  []string `json:"amount_columns"`
	AccountCount   int      `json:"account_count"`
}

// WorkbookInspection is the read-only structure report for a whole workbook.
type WorkbookInspection struct {
	Sheets []SheetInspection `json:"sheets"`
}
