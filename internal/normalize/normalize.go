// Package normalize turns loosely shaped model and API payloads into the
// quiz and chat shapes the client renders. Every entry point is total: bad
// input yields an empty or fallback result, never an error or a panic.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// decodeJSON parses s as a single JSON value.
func decodeJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// firstArray returns the first array-typed field among keys.
func firstArray(obj map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if arr, ok := obj[k].([]any); ok {
			return arr, true
		}
	}
	return nil, false
}

// stringify renders a decoded JSON value as display text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// number reports v as an int when it is a finite JSON number.
func number(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		return t, true
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
