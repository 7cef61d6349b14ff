// Package textnorm canonicalizes subtitle text and search queries so both
// sides of a match go through the same character-class filter.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize composes s to NFC, drops every rune that is not a letter, digit
// or whitespace, collapses whitespace runs to a single space, trims and
// lower-cases the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteString(strings.ToLower(string(r)))
		}
	}

	// Lower-casing can produce combining sequences; recompose.
	return norm.NFC.String(b.String())
}

// IsBlank reports whether s normalizes to the empty string.
func IsBlank(s string) bool {
	return Normalize(s) == ""
}
