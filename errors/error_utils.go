// Package errors provides utilities for categorizing and handling errors in the wallet recovery tool.
package errors

import (
	"context"
	"errors"
)

// Is is a pass-through to the standard library errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a pass-through to the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is a pass-through to the standard library errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsSkippableError determines if an error only affects the record being processed, so the scan
// can move on to the next record.
func IsSkippableError(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_DECODE_WARNING,
			ERR_INVALID_KEY_LENGTH,
			ERR_INVALID_KEY,
			ERR_KEY_NOT_FOUND,
			ERR_CHECKSUM:
			return true
		}
	}

	return false
}

// IsFatalError determines if an error must abort the run.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if the run cannot continue
func IsFatalError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_STORE_ACCESS,
			ERR_IO,
			ERR_CONFIGURATION:
			return true
		}
	}

	return !IsSkippableError(err)
}

// GetErrorCategory returns a short category name for logging.
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	var tErr *Error
	if !As(err, &tErr) {
		return "unknown"
	}

	switch tErr.Code() {
	case ERR_STORE_ACCESS:
		return "store"
	case ERR_DECODE_WARNING:
		return "decode"
	case ERR_KEY_NOT_FOUND:
		return "not-found"
	case ERR_INVALID_KEY_LENGTH, ERR_INVALID_KEY, ERR_CHECKSUM:
		return "key"
	case ERR_IO:
		return "io"
	case ERR_CONFIGURATION, ERR_INVALID_ARGUMENT:
		return "configuration"
	default:
		return "processing"
	}
}
