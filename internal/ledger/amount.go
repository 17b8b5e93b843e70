package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a caller-supplied transaction amount. The amount must be
// a decimal with at most two fractional digits and strictly positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseMoney(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseBalance parses an opening balance. Empty means zero; negative values
// are rejected.
func ParseBalance(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := parseMoney(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !hasCentPrecision(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// hasCentPrecision reports whether d fits in two fractional digits; the store
// keeps DECIMAL(15,2). Trailing zeros do not count ("50.100" is fine).
func hasCentPrecision(d decimal.Decimal) bool {
	return d.Exponent() >= -2 || d.Equal(d.Round(2))
}
