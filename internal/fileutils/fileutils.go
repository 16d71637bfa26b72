// Package fileutils opens the statement, rulebook and report files handled by
// the command line.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stdio is the path that selects standard input or output.
const Stdio = "-"

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// OpenInput opens a file for reading. Stdio selects standard input, which is
// never closed by the returned closer.
func OpenInput(filePath string) (io.ReadCloser, error) {
	if filePath == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// CreateOutput creates or truncates a file for writing, creating parent
// directories as needed. An empty path or Stdio selects standard output.
func CreateOutput(filePath string) (io.WriteCloser, error) {
	if filePath == "" || filePath == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
