package validation

import (
	"fmt"
	"os"
	"unicode/utf8"

	"fjacquet/finledger/internal/fileutils"
)

// IsValidInputFile checks that path names an existing file that is not a
// directory.
func IsValidInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("input file path is required")
	}
	if fileutils.FileExists(path) {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("input file does not exist: %s", path)
	case err != nil:
		return fmt.Errorf("error checking input file %s: %w", path, err)
	default:
		return fmt.Errorf("input path %s is not a regular file", path)
	}
}

// ParseDelimiter converts a flag value into a CSV field delimiter. The
// value must be exactly one character and may not be a quote or line break.
// The literal "\t" is accepted for tab.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// IsValidLimit checks a batch size or row limit flag.
func IsValidLimit(name string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
