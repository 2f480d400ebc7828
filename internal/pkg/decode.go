package pkg

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Doc is a raw stored document body.
type Doc map[string]any

// String returns the first non-empty string found under keys, or "".
func (d Doc) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := d[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Number coerces the first non-nil value under keys to a float64.
// Unparsable and non-finite values become 0.
func (d Doc) Number(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			f, _ := toNumber(v)
			return f
		}
	}
	return 0
}

// Int is Number truncated toward zero and clamped to the int range.
func (d Doc) Int(keys ...string) int {
	return toInt(d.Number(keys...))
}

// Has reports whether key holds a non-nil value.
func (d Doc) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// Bool returns the boolean under key, or def when it is absent or not a bool.
func (d Doc) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Active implements the soft-delete default: only an explicit false is
// inactive.
func (d Doc) Active() bool {
	return d.Bool("isActive", true)
}

// Strings returns the string elements under key, skipping anything else.
func (d Doc) Strings(key string) []string {
	raw, _ := d[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if typed, ok := d[key].([]string); ok {
		out = append(out, typed...)
	}
	return out
}

// Ints returns the finite numeric elements under key.
func (d Doc) Ints(key string) []int {
	raw := d.List(key)
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if f, ok := toNumber(v); ok {
			out = append(out, toInt(f))
		}
	}
	return out
}

// List returns the array under key, or nil when it is not an array.
func (d Doc) List(key string) []any {
	switch v := d[key].(type) {
	case []any:
		return v
	case []int:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []int64:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	}
	return nil
}

// Time parses the value under key. Native times, RFC 3339 strings and
// {seconds, nanos} maps are accepted.
func (d Doc) Time(key string) *time.Time {
	return toTime(d[key])
}

// TimeString renders the value under key as RFC 3339, or "" when it is not a
// recognisable time.
func (d Doc) TimeString(key string) string {
	if t := d.Time(key); t != nil {
		return t.UTC().Format(time.RFC3339)
	}
	return ""
}

func toTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		parsed, err := ParseTimestamp(t)
		if err != nil {
			return nil
		}
		return &parsed
	case map[string]any:
		sec, ok := toNumber(t["seconds"])
		if !ok {
			return nil
		}
		nanos, _ := toNumber(t["nanos"])
		ts := time.Unix(int64(sec), int64(nanos)).UTC()
		return &ts
	}
	return nil
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds and
// zone, plus the bare "2006-01-02T15:04" form produced by datetime inputs.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// toInt truncates a finite f, saturating at the int bounds.
func toInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
