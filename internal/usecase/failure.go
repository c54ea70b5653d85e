package usecase

import (
	"errors"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
)

// backendFailure is the failed side of a gateway result.
type backendFailure interface {
	error
	BackendMessage() string
	FieldErrors() (map[string][]string, bool)
	Transport() bool
}

// backendMessage returns the backend's own text for err, or "".
func backendMessage(err error) string {
	var failure backendFailure
	if errors.As(err, &failure) {
		return failure.BackendMessage()
	}
	return ""
}

// transportFailure reports whether err means no reply was obtained.
func transportFailure(err error) bool {
	var failure backendFailure
	if errors.As(err, &failure) && failure.Transport() {
		return true
	}
	var netErr *domainErrors.NetworkError
	var timeoutErr *domainErrors.TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}

// requestError converts a gateway failure into a RequestError. The backend
// message is preferred; fallback is used when none was sent.
func requestError(op string, err error, fallback string) error {
	msg := backendMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &domainErrors.RequestError{Op: op, Message: msg, Err: err}
}
