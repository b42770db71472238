package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type announcementService interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Get(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error)
	Update(ctx context.Context, id string, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error)
	Delete(ctx context.Context, id string, confirmed bool) (*dto.AnnouncementMutationResult, error)
}

// AnnouncementHandler manages announcements from the admin panel.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// List godoc
// @Summary List announcements
// @Description All announcements, drafts included, newest created first
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body validation.AnnouncementDraft true "Announcement"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var draft validation.AnnouncementDraft
	if !bindJSON(c, &draft) {
		return
	}
	result, err := h.service.Create(c.Request.Context(), &draft)
	if err != nil {
		h.writeFailure(c, result, err)
		return
	}
	response.Created(c, result, notice(c, service.NoticeCreated))
}

// Update godoc
// @Summary Update announcement
// @Description Overwrites the announcement; published_at is recomputed from is_published
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body validation.AnnouncementDraft true "Announcement"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var draft validation.AnnouncementDraft
	if !bindJSON(c, &draft) {
		return
	}
	result, err := h.service.Update(c.Request.Context(), c.Param("id"), &draft)
	if err != nil {
		h.writeFailure(c, result, err)
		return
	}
	response.JSON(c, http.StatusOK, result, notice(c, service.NoticeUpdated))
}

// Delete godoc
// @Summary Delete announcement
// @Description Hard delete. Requires confirm=true; a missing record answers 404 with the refreshed list.
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /admin/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"), confirmed)
	if err != nil {
		h.writeFailure(c, result, err)
		return
	}
	response.JSON(c, http.StatusOK, result, notice(c, service.NoticeDeleted))
}

func (h *AnnouncementHandler) writeFailure(c *gin.Context, result *dto.AnnouncementMutationResult, err error) {
	if result != nil {
		failWithData(c, err, result)
		return
	}
	fail(c, err)
}
