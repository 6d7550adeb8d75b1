package shell

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeString reads a dropdown value. Bare tokens that are not valid JSON
// strings (e.g. a numeric site name sent unquoted) are taken verbatim.
func DecodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" || strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return "", fmt.Errorf("%w: expected string, got %s", ErrInvalidInput, text)
	}
	return text, nil
}

// DecodeRange reads a range-slider value written as [low, high].
func DecodeRange(raw json.RawMessage) (low, high float64, err error) {
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return 0, 0, fmt.Errorf("%w: expected [low, high]: %w", ErrInvalidInput, err)
	}
	if len(pair) != 2 {
		return 0, 0, fmt.Errorf("%w: expected 2 values, got %d", ErrInvalidInput, len(pair))
	}
	return pair[0], pair[1], nil
}

// RawFromQuery turns a query-string value into a JSON literal: valid JSON is
// kept as-is, anything else is quoted as a string. "low,high" pairs become an
// array.
func RawFromQuery(v string) json.RawMessage {
	v = strings.TrimSpace(v)
	if json.Valid([]byte(v)) {
		return json.RawMessage(v)
	}
	if lo, hi, ok := strings.Cut(v, ","); ok {
		a, errA := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if errA == nil && errB == nil {
			out, _ := json.Marshal([]float64{a, b})
			return out
		}
	}
	out, _ := json.Marshal(v)
	return out
}
