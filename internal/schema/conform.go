package schema

import (
	"fmt"

	"docextract/internal/domain"
)

// docTypeKey is echoed back by some models; it is not a document field.
const docTypeKey = "doc_type"

// Conform checks an extraction against the schema's required fields and
// returns a copy without the doc_type echo. Value types are left to the
// validation rules.
func (s *Schema) Conform(data map[string]interface{}) (map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty extraction", domain.ErrInvalidExtraction)
	}

	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k == docTypeKey {
			continue
		}
		out[k] = v
	}

	for _, f := range s.Fields {
		v, ok := out[f.Name]
		if !f.Required {
			continue
		}
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: missing required field %q", domain.ErrInvalidExtraction, f.Name)
		}
		if f.Kind != KindList {
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be a list", domain.ErrInvalidExtraction, f.Name)
		}
		for i, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be an object", domain.ErrInvalidExtraction, f.Name, i)
			}
			for _, sub := range f.Items {
				if sv, ok := item[sub.Name]; sub.Required && (!ok || sv == nil) {
					return nil, fmt.Errorf("%w: missing required field %s[%d].%s", domain.ErrInvalidExtraction, f.Name, i, sub.Name)
				}
			}
		}
	}
	return out, nil
}
