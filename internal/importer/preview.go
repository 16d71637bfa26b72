package importer

import (
	"errors"
	"fmt"
	"io"
)

// PreviewResult holds the header and leading rows of a statement.
type PreviewResult struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Preview returns the header and up to n data rows of r so a column mapping
// can be chosen. It does not touch the store.
func Preview(r io.Reader, n int, delimiter rune) (PreviewResult, error) {
	reader := newReader(r, delimiter)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return PreviewResult{}, nil
		}
		return PreviewResult{}, fmt.Errorf("failed to read header: %w", err)
	}

	result := PreviewResult{Header: header}
	for len(result.Rows) < n {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PreviewResult{}, fmt.Errorf("failed to read row %d: %w", len(result.Rows)+1, err)
		}
		result.Rows = append(result.Rows, record)
	}
	return result, nil
}
