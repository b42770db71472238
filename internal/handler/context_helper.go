package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// notice builds response meta carrying text in the request's language.
func notice(c *gin.Context, text i18n.Text) map[string]interface{} {
	r := middleware.Resolver(c)
	return map[string]interface{}{
		response.MetaNotice:   text.Localize(r),
		response.MetaLanguage: r.Language().String(),
	}
}

// noticeFor picks the user-facing message for err.
func noticeFor(err error) i18n.Text {
	if violation, ok := validation.Violation(err); ok {
		return violation.Message()
	}
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrNotFound.Code:
		return service.NoticeNotFound
	case appErrors.ErrStore.Code:
		return service.NoticeUnavailable
	case appErrors.ErrConfirmationRequired.Code:
		return service.NoticeConfirmDelete
	case appErrors.ErrInvalidCredentials.Code, appErrors.ErrInactiveAccount.Code:
		return service.NoticeInvalidLogin
	case appErrors.ErrUnauthorized.Code:
		return service.NoticeSignInRequired
	case appErrors.ErrForbidden.Code:
		return service.NoticeForbidden
	case appErrors.ErrConflict.Code:
		if appErr.Field == "email" {
			return service.NoticeEmailTaken
		}
		return service.NoticeUpdateFailed
	case service.ErrEditorState.Code:
		return service.NoticeEditorNotDrafted
	case appErrors.ErrValidation.Code:
		return i18n.T(appErr.Message, appErr.Message)
	}
	return service.NoticeUnexpected
}

// fail writes err with its localized notice.
func fail(c *gin.Context, err error) {
	response.Error(c, err, notice(c, noticeFor(err)))
}

// failWithData writes err while still returning data, e.g. a reconciled list.
func failWithData(c *gin.Context, err error, data interface{}) {
	response.ErrorWithData(c, err, data, notice(c, noticeFor(err)))
}

// bindJSON decodes the body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
