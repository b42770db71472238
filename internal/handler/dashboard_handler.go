package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Admin godoc
// @Summary Admin dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	summary, err := h.service.Admin(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	meta := map[string]interface{}{}
	if principal := middleware.Principal(c); principal != nil {
		meta["signed_in_as"] = principal.Email
	}
	response.JSON(c, http.StatusOK, summary, meta)
}
