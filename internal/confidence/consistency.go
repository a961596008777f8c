// Package confidence scores extracted fields from run agreement, validation
// outcome and OCR quality, and aggregates them into a document score.
package confidence

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// maxFlattenDepth bounds recursion; deeper subtrees are stringified whole.
const maxFlattenDepth = 8

// FlatField is one leaf of a flattened extraction.
type FlatField struct {
	Path  string
	Value string
}

// Flatten walks nested objects and lists of objects into ordered
// (path, value) pairs. Object keys join with "." and list items add their
// index, so line_items[1].line_total becomes "line_items.1.line_total".
// Keys at each level are ordered by rank, then alphabetically; rank may be nil.
func Flatten(data map[string]interface{}, rank map[string]int) []FlatField {
	var out []FlatField
	flattenInto(&out, "", data, rank, 0)
	return out
}

func flattenInto(out *[]FlatField, prefix string, m map[string]interface{}, rank map[string]int, depth int) {
	for _, k := range sortedKeys(m, rank) {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		v := m[k]
		if depth+1 >= maxFlattenDepth {
			*out = append(*out, FlatField{Path: path, Value: Stringify(v)})
			continue
		}
		switch x := v.(type) {
		case map[string]interface{}:
			flattenInto(out, path, x, rank, depth+1)
		case []interface{}:
			items, ok := objectItems(x)
			if !ok {
				*out = append(*out, FlatField{Path: path, Value: Stringify(v)})
				continue
			}
			for i, item := range items {
				flattenInto(out, path+"."+strconv.Itoa(i), item, rank, depth+1)
			}
		default:
			*out = append(*out, FlatField{Path: path, Value: Stringify(v)})
		}
	}
}

// objectItems returns the list as objects when every item is one. An empty
// list qualifies and contributes no leaves.
func objectItems(list []interface{}) ([]map[string]interface{}, bool) {
	items := make([]map[string]interface{}, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, false
		}
		items = append(items, m)
	}
	return items, true
}

func sortedKeys(m map[string]interface{}, rank map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok && ri != rj:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Stringify renders a leaf value the way it is compared and reported.
// Null renders as the empty string; containers render as compact JSON.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case decimal.Decimal:
		return x.String()
	case map[string]interface{}, []interface{}:
		raw, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(raw)
	default:
		return fmt.Sprint(x)
	}
}

// Consistency scores every leaf of primary by the fraction of runs whose
// leaf at the same path has the identical string value. With no runs the
// result is empty and callers treat every field as 0.
func Consistency(primary map[string]interface{}, runs []map[string]interface{}) map[string]float64 {
	scores := make(map[string]float64)
	if len(runs) == 0 {
		return scores
	}

	flatRuns := make([]map[string]string, len(runs))
	for i, run := range runs {
		flat := Flatten(run, nil)
		m := make(map[string]string, len(flat))
		for _, f := range flat {
			m[f.Path] = f.Value
		}
		flatRuns[i] = m
	}

	for _, f := range Flatten(primary, nil) {
		matches := 0
		for _, run := range flatRuns {
			if v, ok := run[f.Path]; ok && v == f.Value {
				matches++
			}
		}
		scores[f.Path] = float64(matches) / float64(len(runs))
	}
	return scores
}
