package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	if got := (&APIError{Code: "CART_ERROR", Message: "cart refresh failed"}).Error(); got != "CART_ERROR: cart refresh failed" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&APIError{Code: "CART_ERROR", Message: "cart refresh failed", Err: cause}).Error(); got != "CART_ERROR: cart refresh failed (dial tcp: connection refused)" {
		t.Errorf("Error() with cause = %q", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *APIError
		code     string
		status   int
		sentinel error
		message  string
	}{
		{"not found", NewNotFoundError("cart item"), "NOT_FOUND", 404, ErrNotFound, "cart item not found"},
		{"validation", NewValidationError("couponCode", "is required"), "VALIDATION_ERROR", 400, ErrInvalidRequest, "invalid couponCode: is required"},
		{"unauthorized", NewUnauthorizedError("session expired"), "UNAUTHORIZED", 401, ErrUnauthorized, "session expired"},
		{"upstream", NewUpstreamError("backend", cause), "UPSTREAM_ERROR", 502, ErrUpstreamError, "backend request failed"},
		{"network", NewNetworkError("backend", cause), "NETWORK_ERROR", 503, ErrNetwork, "backend unreachable"},
		{"rate limited", NewRateLimitError("backend"), "RATE_LIMITED", 429, ErrRateLimited, "backend rate limit exceeded, please retry later"},
		{"internal", NewInternalError(cause), "INTERNAL_ERROR", 500, cause, "an internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.status)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
		})
	}
}

func TestValidationErrorField(t *testing.T) {
	err := NewValidationError("items", "select at least one item")
	if err.Field != "items" {
		t.Errorf("Field = %q, want items", err.Field)
	}
	if NewNotFoundError("cart").Field != "" {
		t.Error("non-validation errors carry no field")
	}
}

func TestUpstreamErrorKeepsCause(t *testing.T) {
	err := NewUpstreamError("backend", errors.New("HTTP 500"))

	if !errors.Is(err, ErrUpstreamError) {
		t.Error("upstream error should match ErrUpstreamError")
	}
	if got := err.Unwrap().Error(); got != "upstream error: HTTP 500" {
		t.Errorf("Unwrap() = %q", got)
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading cart: %w", NewUnauthorizedError("token expired"))

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should find APIError through fmt.Errorf")
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("wrapped error should still match ErrUnauthorized")
	}
}
