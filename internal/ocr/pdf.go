package ocr

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"docextract/internal/domain"
	"docextract/internal/port"
)

const (
	// EnginePDFText identifies results read from an embedded PDF text layer.
	EnginePDFText = "pdf_text"

	defaultPageHeight = 792.0
	defaultFontSize   = 12.0
	wordGapRatio      = 0.2
)

// ExtractPDF reads word boxes from the text layer of a PDF. Pages are
// 1-indexed and boxes use a top-left origin.
func ExtractPDF(data []byte) (result *port.OCRResult, err error) {
	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	result = &port.OCRResult{Engine: EnginePDFText, Pages: r.NumPage()}
	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		height := pageHeight(p)

		sort.SliceStable(rows, func(a, b int) bool {
			return rows[a].Position > rows[b].Position
		})
		for _, row := range rows {
			if row == nil || len(row.Content) == 0 {
				continue
			}
			words := rowWords(row.Content, i, height)
			if len(words) == 0 {
				continue
			}
			texts := make([]string, len(words))
			for j, w := range words {
				texts[j] = w.Text
			}
			lines = append(lines, strings.Join(texts, " "))
			result.Tokens = append(result.Tokens, words...)
		}
	}
	result.Text = strings.Join(lines, "\n")
	return result, nil
}

// rowWords groups the glyphs of one text row into words. A word ends at a
// whitespace glyph or at a horizontal gap wider than a fraction of the font
// size.
func rowWords(glyphs []pdf.Text, page int, height float64) []domain.Token {
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		words []domain.Token
		cur   []pdf.Text
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		var sb strings.Builder
		top, bottom := height, 0.0
		for _, g := range cur {
			sb.WriteString(g.S)
			size := g.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			top = min(top, height-(g.Y+size))
			bottom = max(bottom, height-g.Y)
		}
		text := strings.TrimSpace(sb.String())
		if text != "" {
			last := cur[len(cur)-1]
			words = append(words, domain.Token{
				Text: text,
				Page: page,
				BBox: domain.BBox{cur[0].X, top, last.X + last.W, bottom}.Normalized(),
			})
		}
		cur = cur[:0]
	}

	for _, g := range sorted {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			size := prev.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			if g.X-(prev.X+prev.W) > size*wordGapRatio {
				flush()
			}
		}
		cur = append(cur, g)
	}
	flush()
	return words
}

// pageHeight returns the MediaBox height, looking up inherited values.
func pageHeight(p pdf.Page) float64 {
	v := p.V
	for depth := 0; depth < 16 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}
