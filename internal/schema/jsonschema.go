package schema

// JSONSchema renders the schema as a JSON Schema object for the extraction
// prompt.
func (s *Schema) JSONSchema() map[string]interface{} {
	out := objectSchema(s.Fields)
	out["title"] = s.Title
	out["description"] = s.Description
	return out
}

func objectSchema(fields []Field) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = propertySchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func propertySchema(f Field) map[string]interface{} {
	var prop map[string]interface{}
	switch f.Kind {
	case KindList:
		prop = map[string]interface{}{
			"type":  "array",
			"items": objectSchema(f.Items),
		}
	case KindMoney:
		prop = map[string]interface{}{"type": nullable(f, "number", "string")}
	case KindInteger:
		prop = map[string]interface{}{"type": nullable(f, "integer")}
	case KindDate:
		prop = map[string]interface{}{"type": nullable(f, "string"), "format": "date"}
	default:
		prop = map[string]interface{}{"type": nullable(f, "string")}
	}
	prop["description"] = f.Description
	return prop
}

func nullable(f Field, types ...string) interface{} {
	if !f.Required {
		types = append(types, "null")
	}
	if len(types) == 1 {
		return types[0]
	}
	return types
}
