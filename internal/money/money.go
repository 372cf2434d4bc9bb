// Package money converts between user-facing rupee amounts and the int64
// minor units (paise) used for every stored amount and every comparison.
package money

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fractional digits of the currency.
const MinorUnitExponent = 2

// ErrInvalidAmount is returned for non-numeric, zero or negative amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxAmount is the largest single amount accepted, in paise (₹1,000 crore).
const MaxAmount int64 = 1_000_000_000_000

var maxAmount = decimal.New(MaxAmount, -MinorUnitExponent)

// Commas are digit grouping only, in Indian ("1,00,000") or international
// ("100,000") style.
var groupedRupees = regexp.MustCompile(`^(\d{1,3}(,\d{3})+|\d{1,2}(,\d{2})*,\d{3})$`)

// Parse converts a decimal string like "500", "12.34" or "1,00,000.50" into
// paise. A third fractional digit is rounded half away from zero. Only
// strictly positive results up to MaxAmount are accepted.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		whole, frac, hasFrac := strings.Cut(s, ".")
		if !groupedRupees.MatchString(whole) {
			return 0, ErrInvalidAmount
		}
		s = strings.ReplaceAll(whole, ",", "")
		if hasFrac {
			s += "." + frac
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal rupee value into paise.
func FromDecimal(d decimal.Decimal) (int64, error) {
	d = d.Round(MinorUnitExponent)
	if !d.IsPositive() || d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return d.Shift(MinorUnitExponent).IntPart(), nil
}

// FromRupees converts a whole-rupee amount into paise.
func FromRupees(rupees int64) int64 {
	return rupees * 100
}

// Format renders paise as a fixed two-decimal string, e.g. 50050 -> "500.50".
func Format(minor int64) string {
	return decimal.New(minor, -MinorUnitExponent).StringFixed(MinorUnitExponent)
}

// Sum adds amounts in paise, saturating at math.MaxInt64 instead of
// wrapping. Negative amounts are treated as zero.
func Sum(amounts ...int64) int64 {
	var total int64
	for _, a := range amounts {
		if a <= 0 {
			continue
		}
		if total > math.MaxInt64-a {
			return math.MaxInt64
		}
		total += a
	}
	return total
}

// Percentage returns part/whole*100, or 0 when whole is not positive.
func Percentage(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	pct, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 2).
		Float64()
	return pct
}
