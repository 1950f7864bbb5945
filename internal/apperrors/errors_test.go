package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("register: %w", New(CodeCouponExpired, "coupon SAVE10 expired on 2026-01-01"))

	if !errors.Is(err, ErrCouponExpired) {
		t.Fatal("expected wrapped error to match ErrCouponExpired")
	}
	if errors.Is(err, ErrCouponExhausted) {
		t.Fatal("different codes must not match")
	}
	if CodeOf(err) != CodeCouponExpired {
		t.Errorf("CodeOf = %s, want %s", CodeOf(err), CodeCouponExpired)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != CodeUnknown {
		t.Errorf("CodeOf(plain) = %s, want UNKNOWN", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeInvalidSignature, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeUserExists, http.StatusConflict},
		{CodeTicketInvalid, http.StatusConflict},
		{CodeExternalService, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := Wrap(CodeExternalService, "failed to send mail", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected Wrap to keep the cause in the chain")
	}
}
