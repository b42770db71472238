package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type authService interface {
	SignIn(ctx context.Context, form *validation.SignInForm, meta service.RequestMeta) (*models.SignInResponse, error)
	SignOut(ctx context.Context, claims *models.JWTClaims) error
	CurrentSession(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error)
	RequestPasswordReset(ctx context.Context, form *validation.PasswordResetRequest) error
	ResetPassword(ctx context.Context, form *validation.PasswordResetConfirm, meta service.RequestMeta) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      authService
	secureCookie bool
}

// NewAuthHandler creates a new handler. secureCookie marks the session cookie Secure.
func NewAuthHandler(svc authService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// SignIn godoc
// @Summary Administrator sign-in
// @Description Authenticates by email and password, returns an access token and sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body validation.SignInForm true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var form validation.SignInForm
	if !bindJSON(c, &form) {
		return
	}
	res, err := h.service.SignIn(c.Request.Context(), &form, requestMeta(c))
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, res.AccessToken, int(time.Until(res.ExpiresAt).Seconds()))
	response.JSON(c, http.StatusOK, res, notice(c, service.NoticeSignedIn))
}

// SignOut godoc
// @Summary Sign out
// @Description Ends the current session; other contexts holding the same token are denied on their next request
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), claimsFromContext(c)); err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	response.JSON(c, http.StatusOK, nil, notice(c, service.NoticeSignedOut))
}

// Session godoc
// @Summary Current session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	info, err := h.service.CurrentSession(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Always answers 202 for a well-formed email so account existence is not revealed
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body validation.PasswordResetRequest true "Email"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var form validation.PasswordResetRequest
	if !bindJSON(c, &form) {
		return
	}
	if err := h.service.RequestPasswordReset(c.Request.Context(), &form); err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, nil, notice(c, service.NoticeResetSent))
}

// ResetPassword godoc
// @Summary Complete a password reset
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body validation.PasswordResetConfirm true "Token and new password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form validation.PasswordResetConfirm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), &form, requestMeta(c)); err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nil, notice(c, service.NoticePasswordReset))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}
