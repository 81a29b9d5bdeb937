// Package apperror defines the intake error taxonomy and maps validator
// failures to human-readable messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Stable machine identifiers surfaced in the error_id response field.
const (
	IDValidation     = "validation_error"
	IDRateLimited    = "rate_limited"
	IDSpamRejected   = "spam_rejected"
	IDInvalidConsent = "invalid_consent_token"
	IDMethod         = "method_not_allowed"
	IDMalformed      = "malformed_request"
	IDDispatch       = "dispatch_failed"
	IDInternal       = "internal_error"
)

// AppError carries an HTTP-style status code, a stable identifier and a
// message safe to return to the caller. Internal detail stays in Err and is
// only ever logged.
type AppError struct {
	Code    int
	ID      string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// New constructs an AppError without an underlying cause.
func New(code int, id, message string) *AppError {
	return &AppError{Code: code, ID: id, Message: message}
}

// Wrap attaches an internal cause that must not leak to the response body.
func Wrap(code int, id, message string, err error) *AppError {
	return &AppError{Code: code, ID: id, Message: message, Err: err}
}

func MethodNotAllowed() *AppError {
	return New(http.StatusMethodNotAllowed, IDMethod, "only POST requests allowed")
}

func Malformed(err error) *AppError {
	return Wrap(http.StatusBadRequest, IDMalformed, "invalid request payload", err)
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, IDValidation, message)
}

func RateLimited() *AppError {
	return New(http.StatusTooManyRequests, IDRateLimited, "rate limit exceeded, please try again later")
}

func SpamRejected(reason string) *AppError {
	return Wrap(http.StatusForbidden, IDSpamRejected, "message flagged as spam", errors.New(reason))
}

func InvalidConsent() *AppError {
	return New(http.StatusForbidden, IDInvalidConsent, "invalid consent token")
}

func Dispatch(err error) *AppError {
	return Wrap(http.StatusInternalServerError, IDDispatch, "message could not be delivered", err)
}

var fieldMessages = map[string]string{
	"Submission.Name.required":     "field 'name' is required",
	"Submission.Name.nameformat":   "name contains invalid characters",
	"Submission.Name.min":          "name is too short (min. 2 characters)",
	"Submission.Name.max":          "name is too long (max. 100 characters)",
	"Submission.Email.required":    "field 'email' is required",
	"Submission.Email.email":       "invalid email address",
	"Submission.Email.max":         "email is too long (max. 255 characters)",
	"Submission.Company.max":       "company is too long (max. 200 characters)",
	"Submission.Phone.phoneformat": "invalid phone number",
	"Submission.Phone.max":         "phone is too long (max. 50 characters)",
	"Submission.Subject.required":  "field 'subject' is required",
	"Submission.Message.required":  "field 'message' is required",
	"Submission.Message.min":       "message is too short (min. 10 characters)",
	"Submission.Message.max":       "message is too long (max. 5000 characters)",
	"Submission.Privacy.required":  "field 'privacy' is required",
}

// FromValidation aggregates all validator violations into a single
// 400-class AppError with one combined message.
func FromValidation(err error) *AppError {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return Validation("validation failed")
	}

	parts := make([]string, 0, len(verr))
	for _, e := range verr {
		key := e.StructNamespace() + "." + e.Tag()
		if msg, ok := fieldMessages[key]; ok {
			parts = append(parts, msg)
		} else {
			parts = append(parts, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return Validation("validation failed: " + strings.Join(parts, ", "))
}
