package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON number that clients may also send as a numeric string,
// e.g. 2 or "2".
type Number float64

// NumberError reports a JSON value that is neither a number nor a numeric
// string.
type NumberError struct {
	Value string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s is not a number", e.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return &NumberError{Value: string(trimmed)}
		}
		raw = strings.TrimSpace(raw)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return &NumberError{Value: string(trimmed)}
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

// Int64 returns the value when it is a whole number that fits in an int64.
func (n Number) Int64() (int64, bool) {
	f := float64(n)
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
