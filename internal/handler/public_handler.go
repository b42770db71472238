package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type publishedLister interface {
	ListPublished(ctx context.Context, r *i18n.Resolver) ([]models.PublicAnnouncement, error)
}

type contactIntake interface {
	Submit(ctx context.Context, form *validation.ContactForm, r *i18n.Resolver) (string, error)
}

// PublicHandler serves the visitor-facing endpoints.
type PublicHandler struct {
	news     publishedLister
	contact  contactIntake
	settings *i18n.Settings
	logger   *zap.Logger
}

// NewPublicHandler constructs the handler.
func NewPublicHandler(news publishedLister, contact contactIntake, settings *i18n.Settings, logger *zap.Logger) *PublicHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicHandler{news: news, contact: contact, settings: settings, logger: logger}
}

// News godoc
// @Summary Published announcements
// @Description Lists published announcements newest first in the active language. A store failure yields an empty list.
// @Tags Public
// @Produce json
// @Param lang query string false "en or am"
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *PublicHandler) News(c *gin.Context) {
	r := middleware.Resolver(c)
	items, err := h.news.ListPublished(c.Request.Context(), r)
	if err != nil {
		h.logger.Warn("public news read failed", zap.Error(err))
		items = []models.PublicAnnouncement{}
	}
	response.JSON(c, http.StatusOK, dto.PublicNewsResponse{Language: r.Language().String(), Items: items})
}

// Contact godoc
// @Summary Submit the contact form
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body validation.ContactForm true "Contact form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /contact [post]
func (h *PublicHandler) Contact(c *gin.Context) {
	var form validation.ContactForm
	if !bindJSON(c, &form) {
		return
	}
	message, err := h.contact.Submit(c.Request.Context(), &form, middleware.Resolver(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, dto.SubmissionReceipt{Received: true}, map[string]interface{}{response.MetaNotice: message})
}

// Language godoc
// @Summary Active language
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /language [get]
func (h *PublicHandler) Language(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.languageResponse(middleware.Resolver(c).Language()))
}

// SetLanguage godoc
// @Summary Choose the display language
// @Description Remembers the visitor's choice in a cookie. Unknown values fall back to English.
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.LanguageRequest true "Language"
// @Success 200 {object} response.Envelope
// @Router /language [put]
func (h *PublicHandler) SetLanguage(c *gin.Context) {
	var req dto.LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	lang := i18n.Parse(req.Language)
	r := middleware.Resolver(c)
	r.SetLanguage(lang)
	middleware.RememberLanguage(c, lang)
	c.Header("Content-Language", lang.String())
	response.JSON(c, http.StatusOK, h.languageResponse(lang), notice(c, service.NoticeLanguageUpdated))
}

func (h *PublicHandler) languageResponse(active i18n.Language) dto.LanguageResponse {
	def := i18n.English
	if h.settings != nil {
		def = h.settings.Language()
	}
	return dto.LanguageResponse{Language: active.String(), Default: def.String()}
}
