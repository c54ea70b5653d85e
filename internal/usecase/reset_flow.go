package usecase

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
)

// ResetStep is a stage of the password recovery flow.
type ResetStep string

const (
	ResetCollectingEmail       ResetStep = "email"
	ResetCollectingOtp         ResetStep = "otp"
	ResetCollectingNewPassword ResetStep = "password"
	ResetDone                  ResetStep = "done"
)

const minPasswordLength = 6

// ResetState is a snapshot of the flow for rendering.
type ResetState struct {
	Step    ResetStep
	Email   string
	Message string
	Error   string
}

// ResetFlow walks the admin through email, one-time code and new password.
// The console serves a single device, so one flow instance is shared.
type ResetFlow struct {
	auth *AuthUseCase

	mu      sync.Mutex
	step    ResetStep
	email   string
	otp     string
	message string
	errText string
	busy    bool
}

// NewResetFlow creates a flow waiting for an email.
func NewResetFlow(auth *AuthUseCase) *ResetFlow {
	return &ResetFlow{auth: auth, step: ResetCollectingEmail}
}

// State returns the current snapshot.
func (f *ResetFlow) State() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *ResetFlow) snapshot() ResetState {
	return ResetState{Step: f.step, Email: f.email, Message: f.message, Error: f.errText}
}

// Reset returns the flow to the email step and forgets everything entered.
func (f *ResetFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = ResetCollectingEmail
	f.email, f.otp, f.message, f.errText = "", "", "", ""
}

// SubmitEmail requests a code. The flow advances only when the backend
// accepted the request. It may be called again from the code step to resend.
func (f *ResetFlow) SubmitEmail(ctx context.Context, email string) (ResetState, error) {
	if err := f.begin(ResetCollectingEmail, ResetCollectingOtp); err != nil {
		return f.State(), err
	}

	err := f.auth.ForgotPassword(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.fail(err)
		return f.snapshot(), err
	}
	f.step = ResetCollectingOtp
	f.email = strings.TrimSpace(email)
	f.message = "OTP sent to your email. Please check your inbox."
	f.errText = ""
	return f.snapshot(), nil
}

// SubmitOtp records the code. Nothing is checked remotely until the new
// password is submitted.
func (f *ResetFlow) SubmitOtp(otp string) (ResetState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return f.snapshot(), domainErrors.ErrSubmitInFlight
	}
	if f.step != ResetCollectingOtp {
		return f.snapshot(), stepError(f.step)
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		err := domainErrors.NewValidationError("Please enter the OTP")
		f.fail(err)
		return f.snapshot(), err
	}
	f.otp = otp
	f.step = ResetCollectingNewPassword
	f.message, f.errText = "", ""
	return f.snapshot(), nil
}

// SubmitPassword validates the new password locally, then asks the backend
// to apply it. A rejection sends the flow back to the code step.
func (f *ResetFlow) SubmitPassword(ctx context.Context, newPassword, confirmation string) (ResetState, error) {
	f.mu.Lock()
	if f.busy {
		defer f.mu.Unlock()
		return f.snapshot(), domainErrors.ErrSubmitInFlight
	}
	if f.step != ResetCollectingNewPassword {
		defer f.mu.Unlock()
		return f.snapshot(), stepError(f.step)
	}
	if err := validateNewPassword(newPassword, confirmation); err != nil {
		defer f.mu.Unlock()
		f.fail(err)
		return f.snapshot(), err
	}
	f.busy = true
	email, otp := f.email, f.otp
	f.mu.Unlock()

	err := f.auth.VerifyOtpAndResetPassword(ctx, email, otp, newPassword)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.fail(err)
		f.step = ResetCollectingOtp
		f.otp = ""
		return f.snapshot(), err
	}
	f.step = ResetDone
	f.otp = ""
	f.message = "Password reset successfully! Redirecting to login..."
	f.errText = ""
	return f.snapshot(), nil
}

// begin marks the flow busy when it is in one of the allowed steps.
func (f *ResetFlow) begin(allowed ...ResetStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return domainErrors.ErrSubmitInFlight
	}
	for _, step := range allowed {
		if f.step == step {
			f.busy = true
			f.message, f.errText = "", ""
			return nil
		}
	}
	return stepError(f.step)
}

func (f *ResetFlow) fail(err error) {
	f.message = ""
	f.errText = err.Error()
}

func validateNewPassword(password, confirmation string) error {
	if password != confirmation {
		return domainErrors.NewValidationError("Passwords do not match")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domainErrors.NewValidationError("Password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func stepError(step ResetStep) error {
	return domainErrors.NewValidationError("reset flow is at the %s step", step)
}
