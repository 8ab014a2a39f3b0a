package store

import (
	"fmt"

	"github.com/flanksource/bounty-hunter/models"
)

// PersistenceError wraps failures of the underlying database: I/O errors,
// constraint violations, schema mismatches. Callers own retry policy.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates the referenced identifier is absent from the store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvalidTransitionError indicates a status change not permitted by the
// lifecycle state machine. Never retried.
type InvalidTransitionError struct {
	ID   string
	From models.FindingStatus
	To   models.FindingStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From.Terminal() {
		return fmt.Sprintf("finding %s is already %s, no further transitions permitted", e.ID, e.From)
	}
	return fmt.Sprintf("finding %s cannot move from %s to %s (valid: %v)", e.ID, e.From, e.To, e.From.ValidTargets())
}

// ValidationError indicates a malformed input record, rejected before any
// write.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func validation(err error) error {
	return &ValidationError{Err: err}
}
