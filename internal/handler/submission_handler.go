package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type inboxService interface {
	List(ctx context.Context) (*dto.InboxResponse, error)
	ToggleRead(ctx context.Context, id string) (*dto.InboxResponse, bool, error)
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// SubmissionHandler serves the admin inbox.
type SubmissionHandler struct {
	service inboxService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(svc inboxService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// List godoc
// @Summary List contact messages
// @Description Newest first, with the unread count
// @Tags Inbox
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/messages [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	inbox, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inbox)
}

// ToggleRead godoc
// @Summary Toggle a message's read flag
// @Tags Inbox
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope "data holds the re-read inbox"
// @Failure 409 {object} response.Envelope
// @Router /admin/messages/{id}/read [patch]
func (h *SubmissionHandler) ToggleRead(c *gin.Context) {
	inbox, read, err := h.service.ToggleRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if inbox != nil {
			failWithData(c, err, inbox)
			return
		}
		fail(c, err)
		return
	}
	text := service.NoticeMarkedUnread
	if read {
		text = service.NoticeMarkedRead
	}
	response.JSON(c, http.StatusOK, inbox, notice(c, text))
}

// Export godoc
// @Summary Export contact messages
// @Tags Inbox
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/messages/export [get]
func (h *SubmissionHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
