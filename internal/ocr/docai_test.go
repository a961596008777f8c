package ocr_test

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
	"docextract/internal/ocr"
)

func segment(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func TestDocumentToResult(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Dr. Smith\nAmoxicillin",
		Pages: []*documentaipb.Document_Page{
			{
				PageNumber: 1,
				Dimension:  &documentaipb.Document_Page_Dimension{Width: 1000, Height: 2000},
				Tokens: []*documentaipb.Document_Page_Token{
					{Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(0, 4),
						Confidence: 0.9,
						BoundingPoly: &documentaipb.BoundingPoly{Vertices: []*documentaipb.Vertex{
							{X: 10, Y: 20}, {X: 50, Y: 20}, {X: 50, Y: 40}, {X: 10, Y: 40},
						}},
					}},
					{Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(10, 21),
						Confidence: 0.5,
						BoundingPoly: &documentaipb.BoundingPoly{NormalizedVertices: []*documentaipb.NormalizedVertex{
							{X: 0.1, Y: 0.5}, {X: 0.3, Y: 0.5}, {X: 0.3, Y: 0.55}, {X: 0.1, Y: 0.55},
						}},
					}},
					{Layout: &documentaipb.Document_Page_Layout{TextAnchor: segment(9, 10)}},
				},
			},
		},
	}

	result := ocr.DocumentToResult(doc)
	assert.Equal(t, ocr.EngineDocumentAI, result.Engine)
	assert.Equal(t, 1, result.Pages)
	require.Len(t, result.Tokens, 2)

	assert.Equal(t, "Dr.", result.Tokens[0].Text)
	assert.Equal(t, domain.BBox{10, 20, 50, 40}, result.Tokens[0].BBox)
	assert.InDelta(t, 0.9, *result.Tokens[0].Confidence, 1e-6)

	assert.Equal(t, "Amoxicillin", result.Tokens[1].Text)
	assert.InDelta(t, 100, result.Tokens[1].BBox[0], 1e-3)
	assert.InDelta(t, 1000, result.Tokens[1].BBox[1], 1e-3)
	assert.InDelta(t, 300, result.Tokens[1].BBox[2], 1e-3)
	assert.InDelta(t, 1100, result.Tokens[1].BBox[3], 1e-3)
}

func TestDocumentToResult_Nil(t *testing.T) {
	result := ocr.DocumentToResult(nil)
	assert.Empty(t, result.Tokens)
	assert.Empty(t, result.Text)
}
