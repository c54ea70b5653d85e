package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"unknown status", ErrUnknownStatus},
		{"status not applied", ErrStatusNotApplied},
		{"row busy", ErrRowBusy},
		{"submit in flight", ErrSubmitInFlight},
		{"no refresh token", ErrNoRefreshToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match %v", tc.err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("file is required")
	if err.Error() != "file is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	err = &ValidationError{Message: "invalid order", Fields: map[string][]string{
		"PageCount":    {"must be a number"},
		"CustomerName": {"required", "too short"},
	}}
	want := "invalid order (CustomerName: required; too short, PageCount: must be a number)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestWrappedTransportErrors(t *testing.T) {
	cause := stdErrors.New("dial tcp: refused")

	var netErr *NetworkError
	if !stdErrors.As(fmt.Errorf("get: %w", &NetworkError{Err: cause}), &netErr) {
		t.Fatal("expected NetworkError to be extractable")
	}
	if !stdErrors.Is(netErr, cause) {
		t.Fatal("expected NetworkError to unwrap to cause")
	}

	reqErr := &RequestError{Op: "list orders", Message: "boom", Err: cause}
	if reqErr.Error() != "list orders: boom" {
		t.Fatalf("unexpected message %q", reqErr.Error())
	}
	if !stdErrors.Is(reqErr, cause) {
		t.Fatal("expected RequestError to unwrap to cause")
	}
}

func TestIsUnauthorized(t *testing.T) {
	if !IsUnauthorized(fmt.Errorf("x: %w", &HTTPError{Status: 401})) {
		t.Fatal("expected 401 to be recognised")
	}
	if IsUnauthorized(&HTTPError{Status: 500}) {
		t.Fatal("did not expect 500 to be unauthorized")
	}
	if IsUnauthorized(stdErrors.New("plain")) {
		t.Fatal("did not expect plain error to be unauthorized")
	}
}
