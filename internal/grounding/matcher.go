// Package grounding aligns extracted values with OCR tokens to recover the
// page and bounding box they came from.
package grounding

import (
	"strings"

	"docextract/internal/domain"
)

// FindSource locates value among tokens.
//
// Every token whose lower-cased text is one of the value's normalized words
// contributes to a union box; the page is taken from the first such token.
// When no token matches a whole word, the first token whose normalized text
// contains, or is contained in, the normalized value is used instead.
// Returns nil when nothing matches.
func FindSource(value string, tokens []domain.Token) *domain.Source {
	if value == "" || len(tokens) == 0 {
		return nil
	}
	normalized := Normalize(value)
	if normalized == "" {
		return nil
	}

	if src := matchWords(normalized, tokens); src != nil {
		return src
	}
	return matchSubstring(normalized, tokens)
}

func matchWords(normalized string, tokens []domain.Token) *domain.Source {
	words := wordSet(normalized)

	var (
		box   domain.BBox
		page  int
		found bool
	)
	for i := range tokens {
		tok := &tokens[i]
		if _, ok := words[strings.ToLower(tok.Text)]; !ok {
			continue
		}
		b := tok.BBox.Normalized()
		if !found {
			box, page, found = b, tok.Page, true
			continue
		}
		box[0] = min(box[0], b[0])
		box[1] = min(box[1], b[1])
		box[2] = max(box[2], b[2])
		box[3] = max(box[3], b[3])
	}
	if !found {
		return nil
	}
	return &domain.Source{Page: page, BBox: box}
}

func matchSubstring(normalized string, tokens []domain.Token) *domain.Source {
	for i := range tokens {
		word := Normalize(tokens[i].Text)
		if word == "" {
			continue
		}
		if strings.Contains(normalized, word) || strings.Contains(word, normalized) {
			return &domain.Source{Page: tokens[i].Page, BBox: tokens[i].BBox.Normalized()}
		}
	}
	return nil
}
