package reconciler

import (
	"regexp"
	"strings"
	"unicode"

	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeText folds accents and collapses punctuation/whitespace for
// header-title comparison.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// looksLikeLetter reports whether a column spec is a plain column letter
// rather than a header title.
func looksLikeLetter(spec string) bool {
	if len(spec) == 0 || len(spec) > 3 {
		return false
	}
	for _, r := range strings.ToUpper(spec) {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	idx, err := grid.LetterToIndex(spec)
	return err == nil && idx <= grid.MaxColumnIndex
}

// ResolveMapping turns a ColumnSpec into validated, distinct column letters.
// Each entry is taken as a letter when it looks like one, otherwise resolved
// against the sheet's row-1 headers: exact normalized match first, then the
// closest header label.
func ResolveMapping(g grid.Accessor, sheet string, spec domain.ColumnSpec) (domain.ColumnMapping, error) {
	resolve := func(s string) (string, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", &domain.InvalidColumnError{Letter: s}
		}
		if looksLikeLetter(s) {
			return strings.ToUpper(s), nil
		}
		return resolveHeader(g, sheet, s)
	}

	account, err := resolve(spec.Account)
	if err != nil {
		return domain.ColumnMapping{}, err
	}
	current, err := resolve(spec.CurrentYear)
	if err != nil {
		return domain.ColumnMapping{}, err
	}
	prior, err := resolve(spec.PriorYear)
	if err != nil {
		return domain.ColumnMapping{}, err
	}

	if account == current || account == prior {
		return domain.ColumnMapping{}, &domain.InvalidColumnError{Letter: account}
	}
	if current == prior {
		return domain.ColumnMapping{}, &domain.InvalidColumnError{Letter: current}
	}

	return domain.ColumnMapping{Account: account, CurrentYear: current, PriorYear: prior}, nil
}

func resolveHeader(g grid.Accessor, sheet, title string) (string, error) {
	headers, err := g.Row1Headers(sheet)
	if err != nil {
		return "", err
	}

	want := normalizeText(title)
	norms := make([]string, len(headers))
	for i, h := range headers {
		norms[i] = normalizeText(h)
		if want != "" && norms[i] == want {
			return grid.IndexToLetter(i)
		}
	}

	byNorm := make(map[string]int, len(norms))
	var keys []string
	for i, n := range norms {
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			byNorm[n] = i
			keys = append(keys, n)
		}
	}
	if want != "" && len(keys) > 0 {
		cm := closestmatch.New(keys, []int{2, 3, 4})
		if match := cm.Closest(want); match != "" {
			return grid.IndexToLetter(byNorm[match])
		}
	}

	return "", &domain.InvalidColumnError{Letter: title}
}
