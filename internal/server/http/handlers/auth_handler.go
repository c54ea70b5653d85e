package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ashconsole/internal/server/http/dto"
	"github.com/polkiloo/ashconsole/internal/server/http/middleware"
)

// RequestsPath is the admin landing page after sign-in.
const RequestsPath = "/admin/ash/requests"

// AuthHandler processes login and logout.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Session handles GET /admin/ash/login.
func (h *AuthHandler) Session(c *gin.Context) {
	info := h.facade.Session()
	expired := h.facade.ConsumeExpired()
	c.JSON(http.StatusOK, dto.SessionResponse{
		Authenticated: info.Authenticated,
		ExpiresAt:     info.ExpiresAt,
		Expired:       expired || c.Query("expired") != "",
	})
}

// Login handles POST /admin/ash/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid login payload"})
		return
	}

	if err := h.facade.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		status, body := errorStatus(err)
		c.AbortWithStatusJSON(status, body)
		return
	}
	c.Redirect(http.StatusSeeOther, RequestsPath)
}

// Logout handles POST /admin/ash/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.facade.Logout(c.Request.Context())
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
