package grid

import (
	"strings"

	"reconciler-service/internal/domain"
)

// MaxColumnIndex is the highest 0-based column index a worksheet can hold
// (column "XFD").
const MaxColumnIndex = 16383

// LetterToIndex converts a column letter to its 0-based index. The letter is
// read as a base-26 numeral with digits A=1..Z=26; there is no zero digit.
func LetterToIndex(letter string) (int, error) {
	if letter == "" {
		return 0, &domain.InvalidColumnError{Letter: letter}
	}
	value := 0
	for _, r := range strings.ToUpper(letter) {
		if r < 'A' || r > 'Z' {
			return 0, &domain.InvalidColumnError{Letter: letter}
		}
		value = value*26 + int(r-'A') + 1
	}
	return value - 1, nil
}

// IndexToLetter converts a 0-based column index to its letter label.
func IndexToLetter(index int) (string, error) {
	if index < 0 || index > MaxColumnIndex {
		return "", &domain.InvalidColumnError{Letter: ""}
	}
	var b [4]byte
	pos := len(b)
	for index >= 0 {
		pos--
		b[pos] = byte(index%26) + 'A'
		index = index/26 - 1
	}
	return string(b[pos:]), nil
}
