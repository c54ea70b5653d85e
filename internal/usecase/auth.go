package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// SessionStore holds the device's token pair.
type SessionStore interface {
	Authenticated() bool
	Set(ctx context.Context, pair model.TokenPair) error
	Clear(ctx context.Context) error
	Info() model.SessionInfo
}

// AuthUseCase signs the admin in and out and drives password recovery.
type AuthUseCase struct {
	accounts repository.AccountGateway
	session  SessionStore
	logger   *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(accounts repository.AccountGateway, session SessionStore, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, session: session, logger: logger}
}

// Login exchanges credentials for tokens and persists them. A rejection is
// an *AuthError carrying the backend's message; nothing is stored then.
// The password is sent exactly as typed.
func (u *AuthUseCase) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domainErrors.NewValidationError("email and password are required")
	}

	pair, err := u.accounts.Login(ctx, email, password)
	if err != nil {
		return authError(err, "Login failed. Please check your credentials.")
	}
	if pair.AccessToken == "" {
		return &domainErrors.AuthError{Message: "Login failed. Please check your credentials."}
	}

	if err := u.session.Set(ctx, pair); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	u.logger.Info("admin signed in")
	return nil
}

// Logout drops both tokens. It never calls the backend and is idempotent.
func (u *AuthUseCase) Logout(ctx context.Context) {
	if err := u.session.Clear(ctx); err != nil {
		u.logger.Error("failed to clear persisted session", slog.String("error", err.Error()))
		return
	}
	u.logger.Info("admin signed out")
}

// IsAuthenticated reports whether an access token is held.
func (u *AuthUseCase) IsAuthenticated() bool {
	return u.session.Authenticated()
}

// Session describes the current session.
func (u *AuthUseCase) Session() model.SessionInfo {
	return u.session.Info()
}

// ForgotPassword asks the backend to mail a reset code to email.
func (u *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainErrors.NewValidationError("email is required")
	}
	if err := u.accounts.ForgotPassword(ctx, email); err != nil {
		return authError(err, "Failed to send OTP")
	}
	return nil
}

// VerifyOtpAndResetPassword sets newPassword if otp is accepted. A completed
// reset ends any session held on this device; the admin signs in again.
func (u *AuthUseCase) VerifyOtpAndResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if err := u.accounts.VerifyOtpResetPassword(ctx, strings.TrimSpace(email), strings.TrimSpace(otp), newPassword); err != nil {
		return authError(err, "Failed to reset password")
	}
	if err := u.session.Clear(ctx); err != nil {
		u.logger.Error("failed to clear session after password reset", slog.String("error", err.Error()))
	}
	u.logger.Info("password reset completed, session cleared")
	return nil
}

func authError(err error, fallback string) error {
	msg := backendMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &domainErrors.AuthError{Message: msg, Err: err}
}
