package model

import "time"

// TokenPair is the persisted credential set of the admin session.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is present.
func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// SessionInfo is a read-only view of the current session.
type SessionInfo struct {
	Authenticated bool
	ExpiresAt     *time.Time
}
