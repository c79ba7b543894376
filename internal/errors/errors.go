package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/stridehq/stride/internal/logger"
)

// ErrNotFound is returned by storage adapters when a record does not exist.
var ErrNotFound = errors.New("not found")

// NetworkError indicates the remote authority was unreachable or the
// request timed out. It is transient and safe to retry; a pull that fails
// with it must not have mutated local state.
type NetworkError struct {
	Op  string // "pull" or "push"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError indicates there is no valid identity for sync. Callers skip
// the sync rather than surfacing it to the user.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("not authenticated: %s", e.Reason)
}

// ValidationError marks a single structurally invalid record in a sync
// batch. The record is dropped and the rest of the batch continues.
type ValidationError struct {
	Record string // "challenge" or "entry"
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Record, e.ID, e.Reason)
}

// StorageError wraps a local persistence failure. It always propagates to
// the caller; single-record write failures are never swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is the missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
