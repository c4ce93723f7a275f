package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrSKUNotFound = errors.New("sku not found")
)

// ValidationError is returned when input is malformed or missing required
// fields. Err holds the per-field detail.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CodeConflictError is returned when a SKU code is already in use.
type CodeConflictError struct {
	Code string
}

func (e *CodeConflictError) Error() string {
	return fmt.Sprintf("code %q is already in use", e.Code)
}

// TransitionError is returned when a status change is not allowed.
type TransitionError struct {
	Current   Status
	Requested Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.Current, e.Requested)
}

// FieldNotEditableError is returned when an update touches fields that are
// locked in the current status.
type FieldNotEditableError struct {
	Status Status
	Fields []Field
}

func (e *FieldNotEditableError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("fields %s cannot be edited in status %q", strings.Join(names, ", "), e.Status)
}

// StorageError is returned when the repository fails for reasons unrelated
// to business rules.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
