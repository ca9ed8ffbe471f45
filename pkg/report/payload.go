package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Payload is the attribute mapping attached to a delivery request.
// Values are scalars or nested mappings, typically decoded from JSON.
//
// Accessors never fail: missing or mistyped values degrade to zero values.
type Payload map[string]any

// Float returns the numeric value stored under key, or 0.
func (p Payload) Float(key string) float64 {
	f, _ := toFloat(p[key])
	return f
}

// HasNumber reports whether key holds a usable numeric value.
func (p Payload) HasNumber(key string) bool {
	_, ok := toFloat(p[key])
	return ok
}

// Int returns the value stored under key truncated to an int, or 0.
func (p Payload) Int(key string) int {
	return int(p.Float(key))
}

// String returns the value stored under key formatted as a string.
// Nil and missing values yield an empty string.
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Map returns the nested mapping stored under key, or an empty Payload.
func (p Payload) Map(key string) Payload {
	switch v := p[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	default:
		return Payload{}
	}
}

// Clone returns a deep copy of nested mappings and slices so a snapshot
// cannot be mutated through the original.
func (p Payload) Clone() map[string]any {
	if p == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Payload:
		return t.Clone()
	case map[string]any:
		return Payload(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
