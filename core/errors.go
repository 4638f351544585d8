package core

import (
	"errors"
	"fmt"
)

// Authentication errors. Deliberately uniform: callers must not be able
// to tell "unknown identity" from "wrong password" from "stale token".
var (
	ErrInvalidCredentials = errors.New("invalid identity or password") // 401 Unauthorized
	ErrInvalidToken       = errors.New("invalid session token")        // 401 Unauthorized
)

var (
	ErrNotFound = errors.New("not found") // 404 Not Found
)

// ValidationError reports a required field that is missing or out of
// bounds. Always recoverable by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateError reports a uniqueness constraint already satisfied by
// another record (identity, email, or a ledger key).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// StoreError wraps a persistence failure. It is a service-level
// failure, distinct from the request-level errors above, and is never
// retried by the core.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
