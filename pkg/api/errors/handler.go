// Package errors provides HTTP error handling utilities for the API.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/logger"
)

// HandlerWithError is an HTTP handler that can return an error.
// This signature allows handlers to return errors instead of manually
// writing error responses, enabling centralized error handling.
type HandlerWithError func(http.ResponseWriter, *http.Request) error

// envelope is the wire shape for every API error response:
// {status: "error", error, metadata}. Successful responses are written by
// the handlers as their own response types and are not wrapped in it.
type envelope struct {
	Status   string      `json:"status"`
	Error    *errorBody  `json:"error,omitempty"`
	Metadata interface{} `json:"metadata,omitempty"`
}

type errorBody struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details []errors.Detail  `json:"details,omitempty"`
}

// ErrorHandler wraps a HandlerWithError and converts returned errors into
// appropriate HTTP responses.
//
// The decorator:
//   - Returns early if no error is returned (handler already wrote its
//     response)
//   - Extracts the HTTP status and wire-stable code from the error
//   - For 5xx errors: logs full error details, returns a generic message
//   - For 4xx errors: returns the error message and, for ValidationError,
//     its field-level details
//
// Usage:
//
//	r.Get("/{name}", apierrors.ErrorHandler(routes.getSkill))
func ErrorHandler(fn HandlerWithError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		code := errors.Code(err)
		kind := errors.Type(err)
		message := err.Error()

		if code >= http.StatusInternalServerError {
			logger.Errorf("internal server error: %v", err)
			message = http.StatusText(code)
		}

		body := errorBody{Code: kind, Message: message}
		var valErr *errors.Error
		if ae, ok := asGatewayError(err); ok {
			valErr = ae
			body.Details = valErr.Details
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(envelope{Status: "error", Error: &body})
	}
}

func asGatewayError(err error) (*errors.Error, bool) {
	type unwrapper interface{ Unwrap() error }
	for {
		if ge, ok := err.(*errors.Error); ok {
			return ge, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
		if err == nil {
			return nil, false
		}
	}
}
