// Package ledgererror defines the error taxonomy shared by the ledger components.
package ledgererror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a write rejected by a uniqueness constraint.
	ErrDuplicate = errors.New("already exists")

	// ErrValidation indicates input that failed validation before reaching the store.
	ErrValidation = errors.New("validation error")

	// ErrInvariant indicates a write rejected by a ledger invariant, such as a
	// negative posting amount.
	ErrInvariant = errors.New("ledger invariant violated")

	// ErrMissingAccount indicates that a required seeded account does not exist.
	ErrMissingAccount = errors.New("required account missing")

	// ErrPeriodClosed indicates a mutation inside a closed period.
	ErrPeriodClosed = errors.New("period is closed")

	// ErrCategoryCycle indicates a parent assignment that would create a cycle.
	ErrCategoryCycle = errors.New("category hierarchy cycle")

	// ErrZeroAmount indicates a transaction with no amount to post.
	ErrZeroAmount = errors.New("zero-amount transaction cannot be posted")
)

// ParseError represents a statement cell that could not be parsed.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v",
		e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrValidation.
func (e *ParseError) Is(target error) bool {
	return target == ErrValidation
}

// MappingError reports mapped columns absent from the source header.
type MappingError struct {
	Missing []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("column mapping references missing columns: %s", strings.Join(e.Missing, ", "))
}

func (e *MappingError) Is(target error) bool {
	return target == ErrValidation
}

// ConstraintError represents a write rejected by the store. Kind is one of
// ErrDuplicate, ErrInvariant or ErrNotFound (dangling reference).
type ConstraintError struct {
	Table string
	Kind  error
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Table, e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NotFound returns an error wrapping ErrNotFound for the given entity.
func NotFound(entity string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// Invalid returns an error wrapping ErrValidation.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
