package grounding

import (
	"strings"
	"unicode"
)

// Normalize keeps word characters, whitespace and dots, lower-cases the
// result and trims surrounding space.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || unicode.IsSpace(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func wordSet(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
