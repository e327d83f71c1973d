// Package apierr turns failed API exchanges into a single human-readable error.
//
// Failure bodies come from many places (the commerce API itself, gateways in
// front of it, downstream services whose errors get wrapped into trace text), so
// the message is recovered by a chain of extraction strategies with a status-code
// based fallback.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrServer       = errors.New("server error")
)

var statusSentinels = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusUnprocessableEntity: ErrValidation,
	http.StatusInternalServerError: ErrServer,
}

// Error is a non-2xx response from the API.
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the user-facing text, never empty.
	Message string
	// Body is the raw failure body as received.
	Body string
}

// NewError builds an Error from a failed response, falling back to the
// status description when the body holds no usable message.
func NewError(code int, reason, body string) *Error {
	return NewResponseError(code, reason, "", body)
}

// NewResponseError is NewError for a body sent with the given content type.
// A body declared as JSON that does not parse never becomes the message as is,
// only the extraction strategies may recover one from it.
func NewResponseError(code int, reason, contentType, body string) *Error {
	var msg string
	if IsJSON(contentType) && !json.Valid([]byte(body)) {
		msg = Normalize(ExtractStructured(body))
	} else {
		msg = Message(body)
	}
	if msg == "" {
		msg = DescribeStatus(code, reason)
	}
	return &Error{
		StatusCode: code,
		Message:    msg,
		Body:       body,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the status sentinels, so errors.Is(err, ErrNotFound) works for any 404.
func (e *Error) Is(target error) bool {
	sentinel, ok := statusSentinels[e.StatusCode]
	return ok && sentinel == target
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a successful response whose body could not be decoded.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return "decode response body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsJSON reports whether a Content-Type header value declares a JSON body.
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an API error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
