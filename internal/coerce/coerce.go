// Package coerce turns loosely typed identifiers into strict integers.
package coerce

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissing is returned for absent or empty values.
	ErrMissing = errors.New("value is missing")
	// ErrInvalid is returned for values that are not finite integers.
	ErrInvalid = errors.New("value is not a valid integer")
)

// ID converts v to an int64. Strings are trimmed and parsed as base-10
// integers, floats must be finite and integral. Sign is not checked.
func ID(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrMissing
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case json.Number:
		return fromString(n.String())
	case string:
		return fromString(n)
	case *string:
		if n == nil {
			return 0, ErrMissing
		}
		return fromString(*n)
	default:
		return 0, ErrInvalid
	}
}

// PositiveID is ID followed by a strictly positive check.
func PositiveID(v any) (int64, error) {
	n, err := ID(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, ErrInvalid
	}
	return n, nil
}

func fromString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissing
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return fromFloat(f)
}

func fromFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrInvalid
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrInvalid
	}
	return int64(f), nil
}
