package tools

import "fmt"

// Keywords restricted schema consumers reject. Stripped recursively when
// adapting to SchemaFormatJSONSchemaSubset.
var subsetUnsupportedKeys = []string{
	"$schema",
	"$id",
	"$comment",
	"format",
	"default",
	"examples",
}

// emptyObjectSchema is the canonical schema substituted for tools that
// advertise no real input schema. Schema-consuming callers still get a
// structurally valid object schema.
func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": []any{},
	}
}

// adaptSchemaToFormat converts a declared input schema to the requested
// dialect. The full JSON Schema format passes through unchanged; the subset
// format deep-copies the schema and strips keywords restricted consumers
// choke on, collapsing nullable type arrays to their first concrete type.
func adaptSchemaToFormat(schema map[string]any, format SchemaFormat) (map[string]any, error) {
	if schema == nil {
		return nil, nil
	}

	switch format {
	case SchemaFormatJSONSchema:
		return schema, nil
	case SchemaFormatJSONSchemaSubset:
		adapted, ok := adaptValue(schema).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema did not adapt to an object")
		}
		return adapted, nil
	default:
		return nil, fmt.Errorf("unknown schema format %d", format)
	}
}

func adaptValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			if isUnsupportedKey(key) {
				continue
			}
			if key == "type" {
				out[key] = collapseType(inner)
				continue
			}
			out[key] = adaptValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = adaptValue(inner)
		}
		return out
	default:
		return v
	}
}

func isUnsupportedKey(key string) bool {
	for _, unsupported := range subsetUnsupportedKeys {
		if key == unsupported {
			return true
		}
	}
	return false
}

// collapseType reduces a nullable type array like ["string","null"] to its
// first non-null entry. Scalar types pass through.
func collapseType(value any) any {
	types, ok := value.([]any)
	if !ok {
		return value
	}
	for _, t := range types {
		if s, ok := t.(string); ok && s != "null" {
			return s
		}
	}
	return value
}
