package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks input rejected before any store access.
var ErrValidation = errors.New("validation failed")

// ValidationError carries one message per offending JSON field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// WriteError is a failed step of a write workflow. Op names the step; foreign key
// violations for unknown categories or suppliers surface here too.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

type ReadError struct {
	What string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("Failed to fetch %s: %v", e.What, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }
