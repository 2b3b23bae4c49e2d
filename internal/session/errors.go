package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a malformed category or answer before any mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState rejects an operation the current view does not allow.
	ErrInvalidState = errors.New("invalid state")
	// ErrCategoryNotFound reports a title absent from the loaded catalog.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCorruptSnapshot marks persisted data that must be discarded.
	ErrCorruptSnapshot = errors.New("corrupt session snapshot")
)

// PersistenceError describes a failed store call. It is logged, never returned from mutations.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
