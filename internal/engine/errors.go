package engine

import (
	"errors"
	"fmt"
)

// ValidationError rejects user input before any state changes.
// It is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistError reports that an operation was applied in memory but the store
// rejected the write. In-memory and stored state differ until the next successful save.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: persist: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsValidation(err):
		return 2
	default:
		return 1
	}
}
