// Package apperrors provides the domain error type shared by services and handlers.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeConflict         Code = "CONFLICT"

	// Registration errors
	CodeUserExists       Code = "USER_EXISTS"
	CodeEmailNotVerified Code = "EMAIL_NOT_VERIFIED"
	CodeInvalidOTP       Code = "INVALID_OTP"

	// Coupon errors
	CodeInvalidCoupon   Code = "INVALID_COUPON"
	CodeCouponMismatch  Code = "COUPON_MISMATCH"
	CodeCouponExpired   Code = "COUPON_EXPIRED"
	CodeCouponExhausted Code = "COUPON_EXHAUSTED"

	// Payment errors
	CodeInvalidSignature Code = "INVALID_SIGNATURE"

	// Ticket errors
	CodeTicketInvalid Code = "TICKET_INVALID"

	// Booking and voting errors
	CodeStallUnavailable   Code = "STALL_UNAVAILABLE"
	CodeNoActiveContestant Code = "NO_ACTIVE_CONTESTANT"

	CodeExternalService Code = "EXTERNAL_SERVICE_FAILURE"
)

// HTTPStatus maps a code to the status returned by the REST layer.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidationFailed, CodeEmailNotVerified, CodeInvalidOTP,
		CodeInvalidCoupon, CodeCouponMismatch, CodeCouponExpired, CodeCouponExhausted,
		CodeInvalidSignature:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeNoActiveContestant:
		return http.StatusNotFound
	case CodeConflict, CodeUserExists, CodeTicketInvalid, CodeStallUnavailable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	// Fields carries per-field detail for validation failures.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a VALIDATION_FAILED error with field detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidationFailed, Message: message, Fields: fields}
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound           = New(CodeNotFound, "not found")
	ErrUserExists         = New(CodeUserExists, "user already exists")
	ErrEmailNotVerified   = New(CodeEmailNotVerified, "email not verified")
	ErrInvalidOTP         = New(CodeInvalidOTP, "invalid or expired verification code")
	ErrInvalidCoupon      = New(CodeInvalidCoupon, "invalid coupon code")
	ErrCouponMismatch     = New(CodeCouponMismatch, "coupon code does not belong to the selected college")
	ErrCouponExpired      = New(CodeCouponExpired, "coupon has expired")
	ErrCouponExhausted    = New(CodeCouponExhausted, "coupon usage limit reached")
	ErrInvalidSignature   = New(CodeInvalidSignature, "invalid payment signature")
	ErrTicketInvalid      = New(CodeTicketInvalid, "ticket is invalid")
	ErrStallUnavailable   = New(CodeStallUnavailable, "stall is not available")
	ErrNoActiveContestant = New(CodeNoActiveContestant, "no active contestant")
	ErrForbidden          = New(CodeForbidden, "forbidden")
)

// CodeOf extracts the code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
