// Package domainerrors defines the typed failures the registry surfaces to
// its boundary layer. Every business-rule violation carries a stable
// machine-readable code plus the structured details a client needs to
// correct its input; the boundary owns mapping codes to transport status.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies an error kind. Codes are part of the API contract and must
// stay stable once released.
type Code string

const (
	// CodeNotFound: an id lookup failed for get/update/delete/deactivate.
	CodeNotFound Code = "not_found"
	// CodeReferenceNotFound: a foreign-key target is missing.
	CodeReferenceNotFound Code = "reference_not_found"
	// CodeNameConflict: an example name is already taken.
	CodeNameConflict Code = "name_conflict"
	// CodeDuplicateCode: a product code is already taken.
	CodeDuplicateCode Code = "duplicate_code"
	// CodeDuplicateName: a product name is already taken.
	CodeDuplicateName Code = "duplicate_name"
	// CodeVersionConflict: an optimistic version check failed; retryable.
	CodeVersionConflict Code = "version_conflict"
	// CodeInvalidSortColumn: the requested sort column is not whitelisted.
	CodeInvalidSortColumn Code = "invalid_sort_column"
	// CodeInvalidSortDirection: the sort direction is not asc/desc.
	CodeInvalidSortDirection Code = "invalid_sort_direction"
	// CodeConflict: a storage-level uniqueness constraint rejected a write
	// and the colliding field is not known to the service.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation: a model constructor rejected its arguments.
	// Services convert this to CodeValidation before it leaves the module.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeValidation: malformed or missing input.
	CodeValidation Code = "validation"
	// CodeTimeout: a transaction scope was cancelled or timed out.
	CodeTimeout Code = "timeout"
	// CodeInternal: infrastructure failure, propagated without interpretation.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable code and optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a domain code. The cause remains
// reachable via errors.Is/errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// With attaches a detail to the error and returns it for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal for
// infrastructure failures that never got a domain classification.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Details extracts the structured details from err, or nil.
func Details(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
