package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ashconsole/internal/server/http/dto"
	"github.com/polkiloo/ashconsole/internal/server/http/middleware"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

// ResetHandler drives the forgot-password flow.
type ResetHandler struct {
	facade ResetFacade
}

// NewResetHandler creates ResetHandler instance.
func NewResetHandler(facade ResetFacade) *ResetHandler {
	return &ResetHandler{facade: facade}
}

// State handles GET /admin/ash/forgot-password.
func (h *ResetHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, toResetResponse(h.facade.ResetState()))
}

// Advance handles POST /admin/ash/forgot-password.
func (h *ResetHandler) Advance(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid reset payload"})
		return
	}

	var (
		state usecase.ResetState
		err   error
	)
	ctx := c.Request.Context()
	switch req.Action {
	case "email":
		state, err = h.facade.SubmitResetEmail(ctx, req.Email)
	case "otp":
		state, err = h.facade.SubmitResetOtp(req.Otp)
	case "password":
		state, err = h.facade.SubmitResetPassword(ctx, req.NewPassword, req.ConfirmPassword)
	case "restart":
		state = h.facade.RestartReset()
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "unknown action " + req.Action})
		return
	}

	resp := toResetResponse(state)
	if err != nil {
		status, body := errorStatus(err)
		if resp.Error == "" {
			resp.Error = body.Message
		}
		c.AbortWithStatusJSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func toResetResponse(state usecase.ResetState) dto.ResetResponse {
	resp := dto.ResetResponse{
		Step:    string(state.Step),
		Email:   state.Email,
		Message: state.Message,
		Error:   state.Error,
	}
	if state.Step == usecase.ResetDone {
		resp.Redirect = middleware.LoginPath
	}
	return resp
}
