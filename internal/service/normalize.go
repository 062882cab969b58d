package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeMessage removes everything except letters, digits, underscores, whitespace and
// commas, then collapses whitespace runs and trims the result.
func NormalizeMessage(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || unicode.IsSpace(r) || r == ',' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
