// Package domain defines core types, interfaces, and errors for the
// workspace permission service.
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InvalidPermissionError indicates a grant referenced a permission name
// that does not exist in the catalog, or one outside the holder's scope.
type InvalidPermissionError struct {
	Name string
}

func (e *InvalidPermissionError) Error() string {
	return fmt.Sprintf("invalid permission %q", e.Name)
}

// HolderNotInWorkspaceError indicates a policy mutation targeted a holder
// with no membership relation to the workspace.
type HolderNotInWorkspaceError struct {
	Holder HolderRef
}

func (e *HolderNotInWorkspaceError) Error() string {
	return fmt.Sprintf("%s %q is not in the workspace", e.Holder.Type, e.Holder.ID)
}

// StorageError indicates a transient storage failure. The core never retries
// internally; callers may retry the whole operation.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string { return e.Message }
func (e *StorageError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrStorage wraps a transient storage failure.
func ErrStorage(err error, format string, args ...interface{}) *StorageError {
	return &StorageError{Message: fmt.Sprintf(format, args...), Err: err}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
