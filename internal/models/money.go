package models

import (
	"fmt"
	"strings"

	"fjacquet/finledger/internal/ledgererror"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places kept for every amount.
const MoneyPlaces = 2

// maxAmount bounds every stored amount to twelve integer digits.
var maxAmount = decimal.New(1, 12)

// ParseAmount parses a decimal amount as found in a statement cell.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", s, err)
	}
	d = d.Round(MoneyPlaces)
	if err := CheckRange(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckRange rejects amounts whose magnitude reaches 10^12, which cannot be
// stored as cents.
func CheckRange(d decimal.Decimal) error {
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return ledgererror.Invalid("amount %s is out of range (magnitude must be below %s)",
			d.String(), maxAmount.String())
	}
	return nil
}

// ToCents converts an amount to integer minor units, rounding to two places.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(MoneyPlaces).Shift(MoneyPlaces).IntPart()
}

// FromCents converts integer minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyPlaces)
}

// FormatAmount renders an amount with two fixed decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
