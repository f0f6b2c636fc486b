// Package apperr defines the application error taxonomy shared by services
// and handlers. Every service failure is one of these codes; the HTTP layer
// maps codes to statuses in one place.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Code identifies a failure class.
type Code string

const (
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeDuplicateEmail       Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials   Code = "INVALID_CREDENTIALS"
	CodeNotActivated         Code = "NOT_ACTIVATED"
	CodePrincipalNotFound    Code = "PRINCIPAL_NOT_FOUND"
	CodeNotFound             Code = "NOT_FOUND"
	CodeAlreadyApproved      Code = "ALREADY_APPROVED"
	CodeAlreadyRejected      Code = "ALREADY_REJECTED"
	CodeCannotReject         Code = "CANNOT_REJECT_APPROVED"
	CodeInvalidOTP           Code = "INVALID_OTP"
	CodeOTPExpired           Code = "OTP_EXPIRED"
	CodeInvalidResetToken    Code = "INVALID_OR_EXPIRED_TOKEN"
	CodeInvalidReferenceCode Code = "INVALID_REFERENCE_CODE"
	CodeServer               Code = "SERVER_ERROR"
)

// Error carries a code, a client-safe message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error with the given code and client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a new error. The cause is never shown to clients.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HTTPStatus maps the error code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeDuplicateEmail, CodeAlreadyApproved, CodeAlreadyRejected,
		CodeCannotReject, CodeInvalidOTP, CodeOTPExpired, CodeInvalidResetToken,
		CodeInvalidReferenceCode:
		return fiber.StatusBadRequest
	case CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case CodeNotActivated:
		return fiber.StatusForbidden
	case CodePrincipalNotFound, CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// CodeOf extracts the code from an error chain, or CodeServer if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeServer
}
