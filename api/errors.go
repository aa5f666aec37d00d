package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for request binding.
var (
	ErrBindBody = errors.New("bind body")
	ErrBindForm = errors.New("bind form")
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty" xml:"type,omitempty"`
	Title    string            `json:"title,omitempty" xml:"title,omitempty"`
	Status   int               `json:"status" xml:"status"`
	Detail   string            `json:"detail,omitempty" xml:"detail,omitempty"`
	Instance string            `json:"instance,omitempty" xml:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty" xml:"errors>error,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError describes a single field validation failure. Field is the
// dotted location of the value, prefixed with its source: "query.age",
// "path.person_id", "body.person.first_name".
type ValidationError struct {
	Field   string `json:"field" xml:"field"`
	Message string `json:"message" xml:"message"`
	Value   any    `json:"value,omitempty" xml:"value,omitempty"`
}

// ValidationProblem builds the 422 problem returned when request values
// fail binding or constraint checks.
func ValidationProblem(errs ...ValidationError) *ProblemDetail {
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusUnprocessableEntity,
		Detail: fmt.Sprintf("%d constraint violation(s)", len(errs)),
		Errors: errs,
	}
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. An expired request
// deadline maps to 503. Returns http.StatusInternalServerError if the error
// does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// asValidationFailure keeps errors that already carry a status and turns
// anything else into a 422 problem with the error text as detail.
func asValidationFailure(err error) error {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return err
	}
	pd := ValidationProblem()
	pd.Detail = err.Error()
	return pd
}
