// Package store keeps recipes, favorites, shopping lists, view history and
// meal plans consistent on top of a gorm data source.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrPermission  = errors.New("permission denied")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidCredentials is returned by UserStore.Authenticate for an
	// unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports missing or malformed input. The store was not touched.
type ValidationError struct {
	Problems []string
}

func newValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PermissionError reports an actor whose role lacks the capability an
// operation needs. The store was not touched.
type PermissionError struct {
	Role       Role
	Capability Capability
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: role %s cannot %s", ErrPermission, e.Role, e.Capability)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermission }

// NotFoundError reports a missing target, or one that fails its active-state
// precondition.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a failure of the underlying store. Any transaction
// involved has been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// persistence wraps err for op unless it is nil or already one of the typed
// store errors, which pass through unchanged.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		validation *ValidationError
		permission *PermissionError
		notFound   *NotFoundError
		persisted  *PersistenceError
	)
	if errors.As(err, &validation) || errors.As(err, &permission) || errors.As(err, &notFound) || errors.As(err, &persisted) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
