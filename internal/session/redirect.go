package session

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Redirector records that the session was torn down by the HTTP client so
// the next guarded view can send the operator to the login page with an
// "expired" notice.
type Redirector struct {
	logger  *slog.Logger
	expired atomic.Bool
}

// NewRedirector creates a Redirector.
func NewRedirector(logger *slog.Logger) *Redirector {
	return &Redirector{logger: logger}
}

// ToLogin marks the session as expired.
func (r *Redirector) ToLogin(context.Context) {
	r.expired.Store(true)
	r.logger.Warn("session expired, login required")
}

// ConsumeExpired reports and resets the expired mark.
func (r *Redirector) ConsumeExpired() bool {
	return r.expired.Swap(false)
}
