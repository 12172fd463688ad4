package domain

import (
	"fmt"
	"math"
	"strings"
)

// Cents is a fixed-point amount with two fractional digits.
type Cents int64

// MaxDailyRate caps the rate of a single car so reservation totals stay
// far inside int64.
const MaxDailyRate Cents = 100_000_000 // 1,000,000.00

func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(c)/100, int64(c)%100)
}

// Mul multiplies by a non-negative count and reports overflow.
func (c Cents) Mul(n int64) (Cents, error) {
	if n < 0 {
		return 0, Validationf("negative multiplier %d", n)
	}
	if n != 0 && (int64(c) > math.MaxInt64/n || int64(c) < math.MinInt64/n) {
		return 0, Validationf("amount %s times %d is out of range", c, n)
	}
	return c * Cents(n), nil
}

// ParseCents accepts "100", "100.5" and "100.50", with an optional leading
// minus. More than two fractional digits is an error rather than a rounding.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, Validationf("empty amount")
	}
	raw := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !allDigits(whole) || (hasFrac && (!allDigits(frac) || len(frac) > 2)) {
		return 0, Validationf("invalid amount %q", raw)
	}

	const maxUnits = (math.MaxInt64 - 99) / 100
	var units int64
	for _, r := range whole {
		d := int64(r - '0')
		if units > (maxUnits-d)/10 {
			return 0, Validationf("amount %q is out of range", raw)
		}
		units = units*10 + d
	}
	var hundredths int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		hundredths = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	total := Cents(units*100 + hundredths)
	if neg {
		total = -total
	}
	return total, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
