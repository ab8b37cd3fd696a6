package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case folding of s, so "Мастер" and "МАСТЕР" compare equal.
func Fold(s string) string {
	// A Caser keeps state, a fresh one per call keeps Fold safe for concurrent use.
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Truncate cuts s to at most n runes and reports whether it was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:n]), true
}
