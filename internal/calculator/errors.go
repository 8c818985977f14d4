package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSplitConfiguration is returned when a split cannot be computed
	// or does not add up to the expense amount.
	ErrInvalidSplitConfiguration = errors.New("invalid split configuration")

	// ErrMalformedRecord is returned when an expense or settlement is missing
	// data required for balancing.
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError describes which record stopped an aggregation.
type RecordError struct {
	Kind  string // "expense" or "settlement"
	ID    string
	Field string
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s has invalid %s", ErrMalformedRecord, e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: %s %s has invalid %s", ErrMalformedRecord, e.Kind, e.ID, e.Field)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

func invalidSplit(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSplitConfiguration, fmt.Sprintf(format, args...))
}
