// Package apperrors defines the typed errors shared by the catalog
// services. Handlers translate them to HTTP statuses; services never
// reference status codes directly.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError indicates input that fails the field rules.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DuplicateNameError indicates a sibling with the same name already
// exists in the target location.
type DuplicateNameError struct {
	Message string
}

func (e *DuplicateNameError) Error() string { return e.Message }

// SelfParentError indicates a folder referencing itself as parent.
type SelfParentError struct{}

func (e *SelfParentError) Error() string { return "folder cannot be its own parent" }

// CycleError indicates a parent assignment that would close a loop in
// the folder tree.
type CycleError struct{}

func (e *CycleError) Error() string { return "circular folder reference detected" }

// NotFoundError indicates a referenced entity that is absent or
// soft-deleted.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StorageUnavailableError wraps a transient storage failure (timeout,
// cancellation). Callers may retry.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// FromStorage maps context expiry to StorageUnavailableError and passes
// every other error through unchanged.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &StorageUnavailableError{Err: err}
	}
	return err
}
