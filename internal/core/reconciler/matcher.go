package reconciler

import (
	"strings"

	"reconciler-service/internal/domain"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DefaultThreshold is the minimum similarity accepted when the caller does
// not supply one.
const DefaultThreshold = 80.0

// ratioOptions price a substitution as a delete plus an insert, so the ratio
// comes out as (len(a)+len(b)-distance)/(len(a)+len(b)), the classic
// similarity ratio on a 0-1 scale.
var ratioOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 2,
	Matches: levenshtein.IdenticalRunes,
}

// CleanKey is the matching identity of an account name: reserved separator
// stripped, surrounding whitespace trimmed, case-folded.
func CleanKey(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "|", "")))
}

// Similarity scores two clean keys on a 0-100 scale.
func Similarity(a, b string) float64 {
	if a == b {
		return 100
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), ratioOptions) * 100
}

// Matcher pairs source accounts with their best reference counterpart.
type Matcher struct {
	Threshold float64
	// ConsumeTargets removes a matched target from the candidate pool so a
	// reference row is consumed at most once per run.
	ConsumeTargets bool
}

// Match walks sources in order. Each source takes the exact clean-key fast
// path when possible (score 100), otherwise the best-scoring target at or
// above the threshold; ties keep the first target in target order. Sources
// with no candidate produce no MatchRecord.
func (m Matcher) Match(source, target []domain.AccountRecord) []domain.MatchRecord {
	keys := make([]string, len(target))
	index := make(map[string]int, len(target))
	for i, t := range target {
		keys[i] = CleanKey(t.Name)
		if _, ok := index[keys[i]]; !ok {
			index[keys[i]] = i
		}
	}

	consumed := make([]bool, len(target))
	matches := make([]domain.MatchRecord, 0, len(source))

	for _, s := range source {
		key := CleanKey(s.Name)

		if i, ok := index[key]; ok && !(m.ConsumeTargets && consumed[i]) {
			matches = append(matches, domain.MatchRecord{Source: s, Target: target[i], Score: 100})
			consumed[i] = true
			continue
		}

		best := -1.0
		bestIdx := -1
		for i := range target {
			if m.ConsumeTargets && consumed[i] {
				continue
			}
			if score := Similarity(key, keys[i]); score > best {
				best = score
				bestIdx = i
			}
		}
		if bestIdx >= 0 && best >= m.Threshold {
			matches = append(matches, domain.MatchRecord{Source: s, Target: target[bestIdx], Score: best})
			consumed[bestIdx] = true
		}
	}

	return matches
}
