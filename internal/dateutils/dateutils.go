// Package dateutils provides the date handling shared by the importer, the
// store and the reporting layer.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts understood by the ledger.
const (
	DateLayoutISO = "2006-01-02"
	DateLayoutUS  = "01/02/2006"
	MonthLayout   = "2006-01"
)

// StatementFormats lists the layouts accepted for imported statement dates,
// in the order they are tried.
var StatementFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseStatementDate parses an imported date using StatementFormats and
// returns the layout that matched.
func ParseStatementDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range StatementFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayoutISO, CleanDateString(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return t, nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims a date string and collapses inner whitespace
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// ParseMonth parses a YYYY-MM string and returns the first and last day of
// that month.
func ParseMonth(month string) (time.Time, time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	return StartOfMonth(t), EndOfMonth(t), nil
}
