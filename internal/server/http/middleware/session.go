package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/ash/login"

// SessionChecker reports the device's sign-in state.
type SessionChecker interface {
	IsAuthenticated() bool
	ConsumeExpired() bool
}

// RequireSession redirects to the login page unless an access token is held.
// The original destination is not preserved.
func RequireSession(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker.IsAuthenticated() {
			c.Next()
			return
		}
		RedirectToLogin(c, checker.ConsumeExpired())
	}
}

// RedirectToLogin aborts c with a 303 to the login page.
func RedirectToLogin(c *gin.Context, expired bool) {
	target := LoginPath
	if expired {
		target += "?expired=1"
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}
