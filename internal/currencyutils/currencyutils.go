// Package currencyutils reads the amount notations found in bank statements.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/finledger/internal/models"

	"github.com/shopspring/decimal"
)

var (
	currencySymbols = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪]`)
	currencyCode    = regexp.MustCompile(`^[A-Z]{3}\s*|\s*[A-Z]{3}$`)
	separators      = strings.NewReplacer(" ", "", "\u00a0", "", "'", "", "’", "")
)

// ParseAmount parses a statement amount into a decimal rounded to cents.
// It accepts "1,234.56", "1.234,56", "1'234.56", "CHF 12.50", "€12,50" and
// accounting negatives such as "(12.50)".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := models.ParseAmount(StandardizeAmount(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites a statement amount into the plain notation
// understood by decimal.NewFromString. Strings it cannot make sense of are
// returned cleaned but otherwise unchanged, so parsing them still fails.
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	s = currencyCode.ReplaceAllString(s, "")
	s = currencySymbols.ReplaceAllString(s, "")
	s = separators.Replace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if dot > comma {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case comma >= 0:
		if thousandsGrouped(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0 && strings.Count(s, ".") > 1:
		if thousandsGrouped(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if negative && s != "" && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// thousandsGrouped reports whether every group after the first separator
// has exactly three digits, as in 1,234 or 1.234.567.
func thousandsGrouped(s, sep string) bool {
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
