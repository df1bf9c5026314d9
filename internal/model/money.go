package model

import (
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (e.g. cents, piasters).
// Prices are converted into Money once, at normalization time, so totals are
// exact integer sums regardless of how the backend encoded the numbers.
type Money int64

// FromMajor converts an amount in major units to Money.
// Examples: 50 → 5000, 19.99 → 1999, 0.005 → 1
func FromMajor(amount float64) Money {
	// math.Round rounds half away from zero for both signs
	return Money(math.Round(amount * 100))
}

// ParseMoney converts a decimal string amount in major units to Money.
// Examples: "99.00" → 9900, "80" → 8000, "" → 0, "abc" → 0
func ParseMoney(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return FromMajor(f)
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m) / 100
}

// Positive reports whether the amount is greater than zero.
func (m Money) Positive() bool {
	return m > 0
}

// String renders the amount with two decimals, without a currency symbol.
func (m Money) String() string {
	return strconv.FormatFloat(m.Major(), 'f', 2, 64)
}

// Sum adds up the prices of items.
func Sum(items []Item) Money {
	var total Money
	for _, item := range items {
		total += item.Price
	}
	return total
}
