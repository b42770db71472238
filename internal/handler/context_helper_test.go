package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// newTestContext builds a gin context with a resolver for lang and an optional JSON body.
func newTestContext(method, target string, body interface{}, lang i18n.Language) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextResolverKey, i18n.NewResolver(lang))
	return c, rec
}

func TestNoticeForMapsErrors(t *testing.T) {
	violation := validation.Validate(&validation.ContactForm{})
	assert.Equal(t, "Name is required", noticeFor(violation).EN)

	assert.Equal(t, service.NoticeNotFound, noticeFor(appErrors.ErrNotFound))
	assert.Equal(t, service.NoticeUnavailable, noticeFor(appErrors.Store(errors.New("x"), "down")))
	assert.Equal(t, service.NoticeConfirmDelete, noticeFor(appErrors.ErrConfirmationRequired))
	assert.Equal(t, service.NoticeInvalidLogin, noticeFor(appErrors.ErrInvalidCredentials))
	assert.Equal(t, service.NoticeEditorNotDrafted, noticeFor(service.ErrEditorState))
	assert.Equal(t, service.NoticeUnexpected, noticeFor(errors.New("boom")))

	conflict := appErrors.Clone(appErrors.ErrConflict, "taken")
	conflict.Field = "email"
	assert.Equal(t, service.NoticeEmailTaken, noticeFor(conflict))
}

func TestFailLocalizesNotice(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", nil, i18n.Amharic)

	fail(c, appErrors.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, service.NoticeNotFound.AM, envelope.Meta["notice"])
	assert.Equal(t, "am", envelope.Meta["language"])
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestBindJSONRejectsMalformedBody(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/", "{not json", i18n.English)

	var dst struct{}
	assert.False(t, bindJSON(c, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
