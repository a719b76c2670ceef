// Package errors defines the gateway's wire-stable error taxonomy and the
// plumbing that turns a Go error into an HTTP status code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kind constants. These are the wire-stable names surfaced in
// error.code on every API response; they must not be renamed once released.
const (
	ErrValidation                = "ValidationError"
	ErrDuplicateName             = "DuplicateName"
	ErrNotFound                  = "NotFound"
	ErrUnauthorized              = "Unauthorized"
	ErrForbidden                 = "Forbidden"
	ErrServerUnavailable         = "ServerUnavailable"
	ErrRequestCancelled          = "RequestCancelled"
	ErrOverloaded                = "Overloaded"
	ErrEmbeddingBackendUnavailable = "EmbeddingBackendUnavailable"
	ErrEmbeddingRejected         = "EmbeddingRejected"
	ErrSearchBackendError        = "SearchBackendError"
	ErrClassifierError           = "ClassifierError"
	ErrInternal                  = "Internal"
)

// defaultCodes maps each Type to its default HTTP status.
var defaultCodes = map[string]int{
	ErrValidation:                  http.StatusUnprocessableEntity,
	ErrDuplicateName:               http.StatusConflict,
	ErrNotFound:                    http.StatusNotFound,
	ErrUnauthorized:                http.StatusUnauthorized,
	ErrForbidden:                   http.StatusForbidden,
	ErrServerUnavailable:           http.StatusServiceUnavailable,
	ErrRequestCancelled:            499,
	ErrOverloaded:                  http.StatusServiceUnavailable,
	ErrEmbeddingBackendUnavailable: http.StatusServiceUnavailable,
	ErrEmbeddingRejected:           http.StatusBadRequest,
	ErrSearchBackendError:          http.StatusServiceUnavailable,
	ErrClassifierError:             http.StatusInternalServerError,
	ErrInternal:                    http.StatusInternalServerError,
}

// Detail is a single field-level validation failure, used in ValidationError
// responses as error.details[{field, issue}].
type Detail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error is the gateway's canonical error type. Every error returned across a
// component boundary should either be an *Error or be wrapped so that
// errors.As can recover one.
type Error struct {
	Type    string
	Message string
	Cause   error
	Details []Detail
}

// NewError builds an *Error of the given type.
func NewError(errType, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus implements the coder interface consumed by Code.
func (e *Error) HTTPStatus() int {
	if code, ok := defaultCodes[e.Type]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// WithDetails returns a copy of e with Details attached (used for
// ValidationError field-level issues).
func (e *Error) WithDetails(details ...Detail) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Constructors, one per error kind.

func NewValidationError(message string, cause error) *Error {
	return NewError(ErrValidation, message, cause)
}

func NewDuplicateNameError(message string, cause error) *Error {
	return NewError(ErrDuplicateName, message, cause)
}

func NewNotFoundError(message string, cause error) *Error {
	return NewError(ErrNotFound, message, cause)
}

func NewUnauthorizedError(message string, cause error) *Error {
	return NewError(ErrUnauthorized, message, cause)
}

func NewForbiddenError(message string, cause error) *Error {
	return NewError(ErrForbidden, message, cause)
}

func NewServerUnavailableError(message string, cause error) *Error {
	return NewError(ErrServerUnavailable, message, cause)
}

func NewRequestCancelledError(message string, cause error) *Error {
	return NewError(ErrRequestCancelled, message, cause)
}

func NewOverloadedError(message string, cause error) *Error {
	return NewError(ErrOverloaded, message, cause)
}

func NewEmbeddingBackendUnavailableError(message string, cause error) *Error {
	return NewError(ErrEmbeddingBackendUnavailable, message, cause)
}

func NewEmbeddingRejectedError(message string, cause error) *Error {
	return NewError(ErrEmbeddingRejected, message, cause)
}

func NewSearchBackendError(message string, cause error) *Error {
	return NewError(ErrSearchBackendError, message, cause)
}

func NewClassifierError(message string, cause error) *Error {
	return NewError(ErrClassifierError, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

// coder is implemented by any error that knows its own HTTP status; WithCode
// constructs one inline without requiring a full *Error, for callers that
// just need a status attached to an ad-hoc error (e.g. HTTP handlers
// validating request bodies).
type coder interface {
	HTTPStatus() int
}

type codedError struct {
	err  error
	code int
}

func (c *codedError) Error() string { return c.err.Error() }
func (c *codedError) Unwrap() error { return c.err }
func (c *codedError) HTTPStatus() int { return c.code }

// WithCode wraps err so that Code(err) returns code.
func WithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

// Code extracts the HTTP status to use for err. Errors that don't implement
// coder (directly, via WithCode, or via *Error) default to 500.
func Code(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var c coder
	if errors.As(err, &c) {
		return c.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Type extracts the wire-stable Type string for err, defaulting to Internal.
func Type(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrInternal
}
