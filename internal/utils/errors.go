package utils

import "fmt"

// AppError is the error shape the export pipeline hands across package
// boundaries: the operation that failed (e.g. "exports.Load"), a message a
// CLI user can act on, and the wrapped cause for errors.Is/As chains.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

// Unwrap exposes the cause to the errors package.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError. err may be nil when the operation
// itself is the whole story, e.g. a rejected oversized file.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
