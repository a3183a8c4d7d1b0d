package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRuntime Category = "runtime"
	CategoryCLI     Category = "cli"
)

// RouteViewError is a structured error with a code, suggestion and detail.
type RouteViewError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, runtime, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the offending route.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteViewError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteViewError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RouteViewError with the same code.
func (e *RouteViewError) Is(target error) bool {
	t, ok := target.(*RouteViewError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteViewError) WithDetail(d string) *RouteViewError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *RouteViewError) WithDetailf(format string, args ...any) *RouteViewError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteViewError) WithSuggestion(s string) *RouteViewError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RouteViewError) Wrap(err error) *RouteViewError {
	e.Wrapped = err
	return e
}

// New creates a RouteViewError from a registered error code.
func New(code string) *RouteViewError {
	template, ok := registry[code]
	if !ok {
		return &RouteViewError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteViewError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new RouteViewError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RouteViewError {
	return &RouteViewError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RouteViewError.
// Errors that already are RouteViewErrors are returned as-is.
func FromError(err error, code string) *RouteViewError {
	if err == nil {
		return nil
	}
	var ve *RouteViewError
	if stderrors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code string) bool {
	var ve *RouteViewError
	for err != nil {
		if !stderrors.As(err, &ve) {
			return false
		}
		if ve.Code == code {
			return true
		}
		err = ve.Wrapped
	}
	return false
}
