package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsNotFound returns true if the error is a 404 not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 unauthorized error
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsServerError returns true if the error is a 5xx server error
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// NetworkError is returned when the API could not be reached
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies a failed call
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindNotFound
	KindUnauthorized
	KindValidation
	KindEmailInUse
	KindInvalidCredentials
	KindRateLimited
	KindServer
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "unknown",
	KindNetwork:            "network",
	KindNotFound:           "not_found",
	KindUnauthorized:       "unauthorized",
	KindValidation:         "validation",
	KindEmailInUse:         "email_in_use",
	KindInvalidCredentials: "invalid_credentials",
	KindRateLimited:        "rate_limited",
	KindServer:             "server",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error codes the API reports in the envelope
const (
	CodeEmailInUse         = "EMAIL_IN_USE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
)

// KindOf classifies err. Error codes take precedence over status codes.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case CodeEmailInUse:
			return KindEmailInUse
		case CodeInvalidCredentials:
			return KindInvalidCredentials
		case CodeValidation, CodeBadRequest:
			return KindValidation
		case CodeNotFound:
			return KindNotFound
		case CodeUnauthorized, CodeForbidden:
			return KindUnauthorized
		case CodeRateLimited:
			return KindRateLimited
		}
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return KindNotFound
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return KindUnauthorized
		case apiErr.StatusCode == http.StatusBadRequest, apiErr.StatusCode == http.StatusUnprocessableEntity:
			return KindValidation
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return KindRateLimited
		case apiErr.StatusCode >= 500:
			return KindServer
		}
		return KindUnknown
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsUnauthorized reports whether err is a 401/403 from the API
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}
