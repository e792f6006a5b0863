package rest

import (
	"errors"
	"fmt"
	"time"
)

// APIError is the structured error envelope returned by the zkpay service for
// non-2xx responses: {"message": ..., "error": ..., "statusCode": ...}.
type APIError struct {
	// Message is the human-readable error message.
	Message string `json:"message"`
	// Kind is the machine-readable error discriminator (the "error" field).
	Kind string `json:"error"`
	// StatusCode is the HTTP status the service reported.
	StatusCode int `json:"statusCode"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("zkpay api: %s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("zkpay api: %s (status %d)", e.Message, e.StatusCode)
}

// TimeoutError reports that a request was aborted after the client's
// configured timeout elapsed.
type TimeoutError struct {
	// Timeout is the deadline that was exceeded.
	Timeout time.Duration
	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request aborted after %s: %v", e.Timeout, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// AsAPIError returns the *APIError in err's chain, or nil.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
