// file: internal/series/number.go
// version: 1.0.0
// guid: 8c21d6f4-53a0-4b7e-a9d2-0f61e3b85c47

// Package series recovers series names, book numbers and part designations
// from free-text metadata and strips them back out of titles.
package series

import (
	"strconv"
	"strings"
)

// Number is an optional book or part number. The zero value means absent.
// It is comparable, so it can sit inside map keys.
type Number struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Some wraps a known number.
func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber parses "2", "02" or "2.5"; anything else is absent.
func ParseNumber(s string) Number {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Number{}
	}
	return Some(v)
}

// String renders the shortest decimal form ("1", "2.5"), or "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return FormatNumber(n.Value)
}

// FormatNumber renders v without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
