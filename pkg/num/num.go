// Package num converts form text into numbers and numbers into display text.
package num

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrEmpty = errors.New("empty value")

// Parse reads a user-entered number. Surrounding space, a leading "$",
// thousands separators and a trailing "%" are ignored, so "$50,000" and
// "2%" both parse. NaN, Inf and empty input are errors.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, ErrEmpty
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// Positive parses s and reports whether it is a finite number > 0.
func Positive(s string) (float64, bool) {
	f, err := Parse(s)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// Finite reports whether x is neither NaN nor an infinity.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllPositive reports whether every value is finite and > 0.
func AllPositive(xs ...float64) bool {
	for _, x := range xs {
		if !Finite(x) || x <= 0 {
			return false
		}
	}
	return true
}

// Fixed formats x with the given number of decimal places using
// decimal rounding (half away from zero), so 2.345 renders "2.35".
func Fixed(x float64, places int32) string {
	switch {
	case math.IsNaN(x):
		return "N/A"
	case math.IsInf(x, 1):
		return "∞"
	case math.IsInf(x, -1):
		return "-∞"
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}

// Money formats a cash amount with two decimals.
func Money(x float64) string {
	return Fixed(x, 2)
}

// Signed formats x with two decimals and an explicit "+" for gains.
func Signed(x float64) string {
	s := Money(x)
	if x > 0 && Finite(x) {
		return "+" + s
	}
	return s
}

// Percent formats x (already in percent units) as "6.94%".
func Percent(x float64) string {
	if !Finite(x) {
		return Fixed(x, 2)
	}
	return Fixed(x, 2) + "%"
}
