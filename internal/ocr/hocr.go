package ocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// ParseHOCR converts Tesseract hOCR output into word tokens. Each ocr_page
// becomes a page, numbered from 1 in document order. Words whose x_wconf is
// zero or negative are dropped and confidences are scaled to [0,1].
func ParseHOCR(data []byte) (*port.OCRResult, error) {
	decoded, err := decodeHOCR(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, fmt.Errorf("parsing hocr: %w", err)
	}

	result := &port.OCRResult{}
	var pageLines [][]string
	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages++
			page := result.Pages
			var words []string
			walkWords(n, func(w *html.Node) {
				tok, ok := wordToken(w, page)
				if !ok {
					return
				}
				result.Tokens = append(result.Tokens, tok)
				words = append(words, tok.Text)
			})
			pageLines = append(pageLines, words)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if result.Pages == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hocr data")
	}

	pages := make([]string, 0, len(pageLines))
	for _, words := range pageLines {
		pages = append(pages, strings.Join(words, " "))
	}
	result.Text = strings.TrimSpace(strings.Join(pages, "\n"))
	return result, nil
}

func decodeHOCR(data []byte) ([]byte, error) {
	content := string(data)
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return data, nil
	}
	snippet := content[idx+len("charset="):]
	if len(snippet) > 20 {
		snippet = snippet[:20]
	}
	fields := strings.FieldsFunc(snippet, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return data, nil
	}
	enc := strings.ToLower(fields[0])
	if enc == "utf-8" || enc == "utf8" {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding hocr from %s: %w", enc, err)
	}
	return decoded, nil
}

func walkWords(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
		fn(n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkWords(c, fn)
	}
}

func wordToken(n *html.Node, page int) (domain.Token, bool) {
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return domain.Token{}, false
	}
	props := parseTitle(attr(n, "title"))

	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return domain.Token{}, false
	}
	var box domain.BBox
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return domain.Token{}, false
		}
		box[i] = v
	}

	tok := domain.Token{Text: text, Page: page, BBox: box.Normalized()}
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		c, err := strconv.ParseFloat(conf[0], 64)
		if err != nil || c <= 0 {
			return domain.Token{}, false
		}
		c = min(c/100, 1)
		tok.Confidence = &c
	}
	return tok, true
}

// parseTitle splits an hOCR title such as "bbox 1 2 3 4; x_wconf 95".
func parseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
