package models

import (
	"errors"
	"fmt"
	"strings"
)

// Custom errors
var (
	ErrMissingFile     = errors.New("missing required file")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrInvalidRecord   = errors.New("invalid record")
	ErrModelNotTrained = errors.New("model has not been trained")
	ErrNotFound        = errors.New("not found")
)

// ColumnError reports columns absent after a pipeline step, together with the
// columns that were present at that point.
type ColumnError struct {
	Step    string
	Missing []string
	Columns []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: missing columns [%s]; current columns: [%s]",
		e.Step, strings.Join(e.Missing, ", "), strings.Join(e.Columns, ", "))
}

// Unwrap lets callers match ErrMissingColumn with errors.Is.
func (e *ColumnError) Unwrap() error {
	return ErrMissingColumn
}
