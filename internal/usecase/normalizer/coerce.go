package normalizer

import "encoding/json"

// Coercion helpers for untrusted map[string]any payloads (typically the
// result of decoding JSON). Every helper returns a safe zero value instead
// of failing; the normalizer never rejects a payload outright.

// objectField returns the named field as a map, or an empty map when the
// field is absent or not an object
func objectField(raw map[string]any, key string) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// hasObjectField reports whether the named field is present as an object
func hasObjectField(raw map[string]any, key string) bool {
	if raw == nil {
		return false
	}
	_, ok := raw[key].(map[string]any)
	return ok
}

// listField returns the named field as a slice, or nil when absent or
// not an array
func listField(raw map[string]any, key string) []any {
	if raw == nil {
		return nil
	}
	if l, ok := raw[key].([]any); ok {
		return l
	}
	return nil
}

// asObject coerces one list element to a map, defaulting to empty
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// stringField returns the named field as a string, defaulting to empty
func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// numberField returns the named field as a float64, defaulting to zero.
// json.Number is accepted for callers decoding with UseNumber.
func numberField(raw map[string]any, key string) float64 {
	return numberFieldOr(raw, key, 0)
}

// numberFieldOr returns the named field as a float64, or fallback when the
// field is absent or not numeric
func numberFieldOr(raw map[string]any, key string, fallback float64) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

// intField returns the named field as an int64, truncating, defaulting to zero
func intField(raw map[string]any, key string) int64 {
	return int64(numberField(raw, key))
}

// optionalNumberField returns a pointer to the named numeric field, or nil
// when absent or not numeric
func optionalNumberField(raw map[string]any, key string) *float64 {
	if _, present := raw[key]; !present {
		return nil
	}
	switch raw[key].(type) {
	case float64, int, int64, json.Number:
		v := numberField(raw, key)
		return &v
	}
	return nil
}

// boolField returns the named field as a bool, defaulting to false
func boolField(raw map[string]any, key string) bool {
	if b, ok := raw[key].(bool); ok {
		return b
	}
	return false
}

// stringListField returns the named field as a string slice, dropping
// non-string elements, defaulting to empty
func stringListField(raw map[string]any, key string) []string {
	out := make([]string, 0)
	for _, v := range listField(raw, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
