package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type editorRegistry interface {
	Editor(sessionID string) *service.AnnouncementEditor
}

type announcementGetter interface {
	Get(ctx context.Context, id string) (*models.Announcement, error)
}

// EditorHandler drives the per-session announcement editor.
type EditorHandler struct {
	editors       editorRegistry
	announcements announcementGetter
}

// NewEditorHandler constructs the handler.
func NewEditorHandler(editors editorRegistry, announcements announcementGetter) *EditorHandler {
	return &EditorHandler{editors: editors, announcements: announcements}
}

// State godoc
// @Summary Editor state
// @Tags Editor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/editor [get]
func (h *EditorHandler) State(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, editor.Snapshot())
}

// StartCreate godoc
// @Summary Start a new announcement draft
// @Tags Editor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/editor/create [post]
func (h *EditorHandler) StartCreate(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	snap, err := editor.StartCreate()
	if err != nil {
		failWithData(c, err, snap)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// StartEdit godoc
// @Summary Start editing an announcement
// @Tags Editor
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/editor/edit/{id} [post]
func (h *EditorHandler) StartEdit(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	existing, err := h.announcements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	snap, err := editor.StartEdit(*existing)
	if err != nil {
		failWithData(c, err, snap)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// UpdateDraft godoc
// @Summary Replace the draft content
// @Tags Editor
// @Accept json
// @Produce json
// @Param payload body validation.AnnouncementDraft true "Draft"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/editor/draft [put]
func (h *EditorHandler) UpdateDraft(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	var draft validation.AnnouncementDraft
	if !bindJSON(c, &draft) {
		return
	}
	snap, err := editor.SetDraft(draft)
	if err != nil {
		failWithData(c, err, snap)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Save godoc
// @Summary Save the draft
// @Description On failure the draft is kept and the error returned alongside the editor state
// @Tags Editor
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/editor/save [post]
func (h *EditorHandler) Save(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	mode := editor.Snapshot().Mode
	snap, err := editor.Save(c.Request.Context())
	if err != nil {
		failWithData(c, err, snap)
		return
	}
	text := service.NoticeUpdated
	if mode == service.EditorModeCreate {
		text = service.NoticeCreated
	}
	response.JSON(c, http.StatusOK, snap, notice(c, text))
}

// Cancel godoc
// @Summary Discard the draft
// @Tags Editor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/editor [delete]
func (h *EditorHandler) Cancel(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, editor.Cancel(), notice(c, service.NoticeDraftDiscarded))
}

func (h *EditorHandler) editor(c *gin.Context) (*service.AnnouncementEditor, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.SessionID() == "" {
		fail(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return h.editors.Editor(claims.SessionID()), true
}
