package test

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedToken returns an HS256 JWT expiring at exp, shaped like the
// backend's access tokens.
func SignedToken(subject string, exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return token
}
