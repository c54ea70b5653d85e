package dto

import "time"

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the device session.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}

// ResetRequest advances the password reset flow. Action is one of
// "email", "otp", "password" or "restart".
type ResetRequest struct {
	Action          string `json:"action"`
	Email           string `json:"email"`
	Otp             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetResponse is the reset flow state.
type ResetResponse struct {
	Step     string `json:"step"`
	Email    string `json:"email,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
