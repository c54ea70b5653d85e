package backend

import (
	"context"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

const (
	loginPath          = "/api/account/login"
	forgotPasswordPath = "/api/account/forgot-password"
	resetPasswordPath  = "/api/account/verify-otp-reset-password"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// AccountGateway implements repository.AccountGateway over Client.
type AccountGateway struct {
	client *Client
}

// NewAccountGateway wraps client.
func NewAccountGateway(client *Client) *AccountGateway {
	return &AccountGateway{client: client}
}

// Login exchanges credentials for a token pair. Failures are *Failure.
func (g *AccountGateway) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	payload, err := JSON(loginRequest{Email: email, Password: password})
	if err != nil {
		return model.TokenPair{}, err
	}
	return Decode[model.TokenPair](g.client.Post(ctx, loginPath, payload, WithoutRefresh())).Unwrap()
}

// ForgotPassword asks the backend to mail a one-time code.
func (g *AccountGateway) ForgotPassword(ctx context.Context, email string) error {
	payload, err := JSON(forgotPasswordRequest{Email: email})
	if err != nil {
		return err
	}
	_, err = Decode[struct{}](g.client.Post(ctx, forgotPasswordPath, payload, WithoutRefresh())).Unwrap()
	return err
}

// VerifyOtpResetPassword sets a new password using the mailed code.
func (g *AccountGateway) VerifyOtpResetPassword(ctx context.Context, email, otp, newPassword string) error {
	payload, err := JSON(resetPasswordRequest{Email: email, Otp: otp, NewPassword: newPassword})
	if err != nil {
		return err
	}
	_, err = Decode[struct{}](g.client.Post(ctx, resetPasswordPath, payload, WithoutRefresh())).Unwrap()
	return err
}
