package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawDocument is one decoded JSON object as returned by the job board API.
// Lookups never fail: missing keys, nulls and values of an unexpected type
// all read as the zero value.
type RawDocument map[string]any

// Text returns the value under key as a string. Numbers are formatted
// without exponent so numeric ids survive.
func (d RawDocument) Text(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Int returns the value under key as an int. Fractions are truncated and
// numeric strings are parsed; anything else is 0. Values outside the range
// of a Postgres INTEGER column also read as 0.
func (d RawDocument) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return floatToInt(float64(v))
	case int64:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return floatToInt(float64(n))
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return floatToInt(float64(n))
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0
}

// Object returns the nested object under key, or nil. A nil RawDocument is
// safe to read from.
func (d RawDocument) Object(key string) RawDocument {
	switch v := d[key].(type) {
	case map[string]any:
		return RawDocument(v)
	case RawDocument:
		return v
	}
	return nil
}

// Objects returns the elements of the array under key that are objects.
func (d RawDocument) Objects(key string) []RawDocument {
	items, ok := d[key].([]any)
	if !ok {
		return nil
	}
	docs := make([]RawDocument, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			docs = append(docs, RawDocument(obj))
		}
	}
	return docs
}

func floatToInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
