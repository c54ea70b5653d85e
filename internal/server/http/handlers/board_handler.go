package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/server/http/dto"
)

// BoardHandler serves the admin order list.
type BoardHandler struct {
	facade BoardFacade
	now    func() time.Time
}

// NewBoardHandler creates BoardHandler instance.
func NewBoardHandler(facade BoardFacade) *BoardHandler {
	return &BoardHandler{facade: facade, now: time.Now}
}

// List handles GET /admin/ash/requests. The list is fetched on first view
// only; a failed fetch still renders with the banner set.
func (h *BoardHandler) List(c *gin.Context) {
	status, ok := h.statusFilter(c)
	if !ok {
		return
	}
	if err := h.facade.LoadBoard(c.Request.Context()); err != nil && isUnauthorized(c, err) {
		return
	}
	h.render(c, status)
}

// Refresh handles POST /admin/ash/requests/refresh.
func (h *BoardHandler) Refresh(c *gin.Context) {
	status, ok := h.statusFilter(c)
	if !ok {
		return
	}
	if err := h.facade.RefreshBoard(c.Request.Context()); err != nil && isUnauthorized(c, err) {
		return
	}
	h.render(c, status)
}

// ChangeStatus handles PATCH /admin/ash/requests/:id/status.
func (h *BoardHandler) ChangeStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid order id"})
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid status payload"})
		return
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	order, err := h.facade.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// DismissBanner handles DELETE /admin/ash/requests/banner.
func (h *BoardHandler) DismissBanner(c *gin.Context) {
	h.facade.DismissBoardBanner()
	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) statusFilter(c *gin.Context) (model.OrderStatus, bool) {
	raw := c.Query("status")
	if raw == "" || raw == "all" {
		return "", true
	}
	status, err := model.ParseOrderStatus(raw)
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return status, true
}

func (h *BoardHandler) render(c *gin.Context, status model.OrderStatus) {
	view := h.facade.Board(c.Query("q"), status, h.now())
	resp := dto.BoardResponse{Orders: make([]dto.OrderResponse, 0, len(view.Rows)), Total: view.Total, Error: view.Error}
	for _, row := range view.Rows {
		resp.Orders = append(resp.Orders, toRowResponse(row))
	}
	c.JSON(http.StatusOK, resp)
}

// isUnauthorized redirects to login when err is a terminal 401.
func isUnauthorized(c *gin.Context, err error) bool {
	if !domainErrors.IsUnauthorized(err) {
		return false
	}
	abortWithError(c, err)
	return true
}
