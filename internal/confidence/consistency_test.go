package confidence_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/confidence"
)

func decodeJSON(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]interface{}
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestFlatten_NestedAndLists(t *testing.T) {
	data := decodeJSON(t, `{
		"vendor_name": "Acme",
		"total_amount": 100.00,
		"meta": {"source": "scan"},
		"tags": ["a", "b"],
		"line_items": [
			{"description": "Widget", "line_total": 60},
			{"description": "Gadget", "line_total": 40}
		]
	}`)

	got := confidence.Flatten(data, nil)
	assert.Equal(t, []confidence.FlatField{
		{Path: "line_items.0.description", Value: "Widget"},
		{Path: "line_items.0.line_total", Value: "60"},
		{Path: "line_items.1.description", Value: "Gadget"},
		{Path: "line_items.1.line_total", Value: "40"},
		{Path: "meta.source", Value: "scan"},
		{Path: "tags", Value: `["a","b"]`},
		{Path: "total_amount", Value: "100.00"},
		{Path: "vendor_name", Value: "Acme"},
	}, got)
}

func TestFlatten_RankOrdersKeys(t *testing.T) {
	data := map[string]interface{}{"b": 1, "a": 2, "z": 3, "c": 4}
	got := confidence.Flatten(data, map[string]int{"z": 0, "b": 1})

	paths := make([]string, 0, len(got))
	for _, f := range got {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"z", "b", "a", "c"}, paths)
}

func TestFlatten_EmptyListHasNoLeaves(t *testing.T) {
	got := confidence.Flatten(map[string]interface{}{"medications": []interface{}{}}, nil)
	assert.Empty(t, got)
}

func TestFlatten_DepthBound(t *testing.T) {
	var leaf interface{} = "deep"
	for i := 0; i < 12; i++ {
		leaf = map[string]interface{}{"n": leaf}
	}
	got := confidence.Flatten(map[string]interface{}{"root": leaf}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, 8, strings.Count(got[0].Path, ".")+1)
	assert.True(t, strings.HasPrefix(got[0].Value, `{"n":`))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", confidence.Stringify(nil))
	assert.Equal(t, "true", confidence.Stringify(true))
	assert.Equal(t, "100", confidence.Stringify(100.0))
	assert.Equal(t, "12.5", confidence.Stringify(12.5))
	assert.Equal(t, "100.00", confidence.Stringify(json.Number("100.00")))
	assert.Equal(t, "7", confidence.Stringify(7))
	assert.Equal(t, `{"a":1}`, confidence.Stringify(map[string]interface{}{"a": 1}))
}

func TestConsistency_AllRunsAgree(t *testing.T) {
	primary := map[string]interface{}{"vendor_name": "Acme", "total_amount": "100.00"}
	runs := []map[string]interface{}{
		{"vendor_name": "Acme", "total_amount": "100.00"},
		{"vendor_name": "Acme", "total_amount": "100.00"},
		{"vendor_name": "Acme", "total_amount": "100.00"},
	}

	scores := confidence.Consistency(primary, runs)
	assert.Equal(t, 1.0, scores["vendor_name"])
	assert.Equal(t, 1.0, scores["total_amount"])
}

func TestConsistency_PartialAndMissing(t *testing.T) {
	primary := map[string]interface{}{
		"vendor_name": "Acme",
		"line_items":  []interface{}{map[string]interface{}{"line_total": "50.00"}},
	}
	runs := []map[string]interface{}{
		{"vendor_name": "Acme"},
		{"vendor_name": "ACME", "line_items": []interface{}{map[string]interface{}{"line_total": "50.00"}}},
		{"vendor_name": "Acme", "line_items": []interface{}{map[string]interface{}{"line_total": "50.0"}}},
		{},
	}

	scores := confidence.Consistency(primary, runs)
	assert.Equal(t, 0.5, scores["vendor_name"])
	assert.Equal(t, 0.25, scores["line_items.0.line_total"])
}

func TestConsistency_NoRuns(t *testing.T) {
	scores := confidence.Consistency(map[string]interface{}{"vendor_name": "Acme"}, nil)
	assert.Empty(t, scores)
}

func TestConsistency_PathMissingEverywhere(t *testing.T) {
	scores := confidence.Consistency(
		map[string]interface{}{"invoice_number": "INV-1"},
		[]map[string]interface{}{{"vendor_name": "x"}, {"vendor_name": "y"}},
	)
	assert.Equal(t, 0.0, scores["invoice_number"])
}
