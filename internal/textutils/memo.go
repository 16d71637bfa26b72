// Package textutils provides text normalization for statement descriptions.
package textutils

import (
	"regexp"
	"strings"
)

var (
	spaces        = regexp.MustCompile(`\s+`)
	cardNumber    = regexp.MustCompile(`\b(?:X{2,}|\*{2,})\d{2,4}\b`)
	referenceTail = regexp.MustCompile(`(?i)\s+(?:REF|REFERENCE|TRX|ID)(?:[:#]\s*|\s+)[0-9A-Z-]*\d[0-9A-Z-]*$`)
	storeNumber   = regexp.MustCompile(`\s*#\s*\d+`)
)

// NormalizeMemo reduces a raw statement description to a stable memo:
// masked card numbers, trailing references and store numbers are removed,
// whitespace is collapsed and the result is upper-cased. It returns "" when
// nothing meaningful is left.
func NormalizeMemo(description string) string {
	memo := strings.TrimSpace(description)
	memo = cardNumber.ReplaceAllString(memo, " ")
	memo = referenceTail.ReplaceAllString(memo, "")
	memo = storeNumber.ReplaceAllString(memo, "")
	memo = spaces.ReplaceAllString(memo, " ")
	return strings.ToUpper(strings.TrimSpace(memo))
}
