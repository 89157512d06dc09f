package reconciler

import (
	"testing"

	"reconciler-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(name string, row int) domain.AccountRecord {
	return domain.AccountRecord{Name: name, Row: row}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cash", "cash"},
		{"  Accounts Receivable  ", "accounts receivable"},
		{"Cash|Equivalents", "cashequivalents"},
		{"|Wages Payable|", "wages payable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanKey(tt.in), "input %q", tt.in)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, Similarity("cash", "cash"))
	assert.Equal(t, 0.0, Similarity("ab", "cd"))
	// one substitution over 5+5 runes: (10-2)/10
	assert.InDelta(t, 80.0, Similarity("abcde", "abcdf"), 1e-9)
	// one substitution over 4+4 runes: (8-2)/8
	assert.InDelta(t, 75.0, Similarity("abcd", "abce"), 1e-9)
}

func TestExactMatchBeatsFuzzyCandidate(t *testing.T) {
	source := []domain.AccountRecord{account("Cash", 2)}
	target := []domain.AccountRecord{
		account("Cash Equivalents", 2),
		account("cash", 3),
	}

	matches := Matcher{Threshold: 80}.Match(source, target)

	require.Len(t, matches, 1)
	assert.Equal(t, "cash", matches[0].Target.Name)
	assert.Equal(t, 100.0, matches[0].Score)
}

func TestThresholdBoundary(t *testing.T) {
	source := []domain.AccountRecord{account("abcde", 2)}
	target := []domain.AccountRecord{account("abcdf", 2)}

	// score of exactly 80 is accepted at threshold 80
	matches := Matcher{Threshold: 80}.Match(source, target)
	require.Len(t, matches, 1)
	assert.InDelta(t, 80.0, matches[0].Score, 1e-9)

	// the same pair fails once the threshold moves above its score
	matches = Matcher{Threshold: 81}.Match(source, target)
	assert.Empty(t, matches)
}

func TestTieBreakKeepsFirstTarget(t *testing.T) {
	source := []domain.AccountRecord{account("abcde", 2)}
	// both targets score the same against the source
	target := []domain.AccountRecord{
		account("abcdx", 5),
		account("abcdy", 6),
	}

	matches := Matcher{Threshold: 70}.Match(source, target)

	require.Len(t, matches, 1)
	assert.Equal(t, 5, matches[0].Target.Row)
}

func TestUnmatchedSourceProducesNoRecord(t *testing.T) {
	source := []domain.AccountRecord{account("Inventory", 2)}
	target := []domain.AccountRecord{account("Wages Payable", 2)}

	matches := Matcher{Threshold: 80}.Match(source, target)
	assert.Empty(t, matches)
}

func TestConsumeTargetsPolicy(t *testing.T) {
	source := []domain.AccountRecord{
		account("Office Supplies", 2),
		account("Office Suppliez", 3),
	}
	target := []domain.AccountRecord{account("office supplies", 2)}

	// default: both sources may consume the same reference row
	matches := Matcher{Threshold: 80}.Match(source, target)
	require.Len(t, matches, 2)
	assert.Equal(t, 100.0, matches[0].Score)
	assert.Less(t, matches[1].Score, 100.0)

	// consuming: the reference row is matchable at most once
	matches = Matcher{Threshold: 80, ConsumeTargets: true}.Match(source, target)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Source.Row)
}
