package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type credentialUpdater interface {
	UpdateCredentials(ctx context.Context, claims *models.JWTClaims, form *validation.CredentialUpdate) (*service.CredentialUpdateResult, error)
}

// SettingsHandler covers the admin's own account and site-wide defaults.
type SettingsHandler struct {
	credentials credentialUpdater
	settings    *i18n.Settings
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(credentials credentialUpdater, settings *i18n.Settings) *SettingsHandler {
	return &SettingsHandler{credentials: credentials, settings: settings}
}

// UpdateCredentials godoc
// @Summary Update email and password
// @Description Password is optional; changing it signs out the account's other sessions
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body validation.CredentialUpdate true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/settings/credentials [put]
func (h *SettingsHandler) UpdateCredentials(c *gin.Context) {
	var form validation.CredentialUpdate
	if !bindJSON(c, &form) {
		return
	}
	result, err := h.credentials.UpdateCredentials(c.Request.Context(), claimsFromContext(c), &form)
	if err != nil {
		fail(c, err)
		return
	}
	text := service.NoticeProfileUpdated
	if !result.Changed() {
		text = service.NoticeNoChanges
	}
	response.JSON(c, http.StatusOK, result, notice(c, text))
}

// SetDefaultLanguage godoc
// @Summary Set the site default language
// @Description Applies to visitors with no explicit choice
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.LanguageRequest true "Language"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/settings/language [put]
func (h *SettingsHandler) SetDefaultLanguage(c *gin.Context) {
	var req dto.LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	if !i18n.Recognized(req.Language) {
		fail(c, appErrors.FieldError("language", "language must be en or am", nil))
		return
	}
	lang := i18n.Parse(req.Language)
	h.settings.SetLanguage(lang)
	active := middleware.Resolver(c).Language()
	response.JSON(c, http.StatusOK, dto.LanguageResponse{Language: active.String(), Default: lang.String()}, notice(c, service.NoticeLanguageUpdated))
}
