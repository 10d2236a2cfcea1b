package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes rendered to the kiosk screen.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// User-facing messages. Raw backend text never replaces these.
const (
	MsgInvalidCredentials = "Invalid PIN or staff not found"
	MsgUnableToVerify     = "Unable to verify PIN. Please try again."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgTryAgain           = "Something went wrong. Please try again."
)

// LoginPath is where every forced logout sends the screen.
const LoginPath = "/login"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewInvalidCredentials never says whether the shop or the PIN was wrong.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, MsgInvalidCredentials, http.StatusUnauthorized, nil)
}

// NewSessionExpired tells the screen to go back to the login page.
func NewSessionExpired(cause error) error {
	return &DomainError{
		Code:       CodeSessionExpired,
		Message:    MsgSessionExpired,
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"redirect": LoginPath},
		Err:        cause,
	}
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewUnavailable hides a backend or transport failure behind a generic message.
func NewUnavailable(message string, cause error) error {
	return &DomainError{
		Code:       CodeUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        cause,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
