package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSpreadsheetUnavailable means no reachable workbook or sheet. Fatal for
// the whole run; retrying without user intervention cannot help.
var ErrSpreadsheetUnavailable = errors.New("spreadsheet unavailable")

// InvalidColumnError reports a column spec that does not resolve.
type InvalidColumnError struct {
	Letter string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column %q", e.Letter)
}

// MissingParametersError reports required identifiers absent from a request.
// Surfaced before any extraction is attempted.
type MissingParametersError struct {
	Missing []string
}

func (e *MissingParametersError) Error() string {
	return "missing required parameters: " + strings.Join(e.Missing, ", ")
}
