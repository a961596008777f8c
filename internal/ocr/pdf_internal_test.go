package ocr

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
)

func glyphs(x float64, y float64, s string) []pdf.Text {
	out := make([]pdf.Text, 0, len(s))
	for _, r := range s {
		out = append(out, pdf.Text{FontSize: 10, X: x, Y: y, W: 5, S: string(r)})
		x += 5
	}
	return out
}

func TestRowWords_SplitsOnSpaceAndGap(t *testing.T) {
	row := glyphs(100, 700, "Acme Corp")
	row = append(row, glyphs(200, 700, "Ltd")...)

	words := rowWords(row, 2, 792)
	require.Len(t, words, 3)

	assert.Equal(t, "Acme", words[0].Text)
	assert.Equal(t, "Corp", words[1].Text)
	assert.Equal(t, "Ltd", words[2].Text)
	for _, w := range words {
		assert.Equal(t, 2, w.Page)
		assert.Nil(t, w.Confidence)
	}
	// Top-left origin: baseline 700 on a 792pt page with 10pt glyphs.
	assert.Equal(t, domain.BBox{100, 82, 120, 92}, words[0].BBox)
}

func TestRowWords_UnsortedGlyphs(t *testing.T) {
	row := glyphs(10, 500, "Total")
	row[0], row[4] = row[4], row[0]

	words := rowWords(row, 1, 792)
	require.Len(t, words, 1)
	assert.Equal(t, "Total", words[0].Text)
}

func TestRowWords_WhitespaceOnly(t *testing.T) {
	assert.Empty(t, rowWords(glyphs(0, 0, "   "), 1, 792))
}

func TestExtractPDF_Invalid(t *testing.T) {
	_, err := ExtractPDF([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}
