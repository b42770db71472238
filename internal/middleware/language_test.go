package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/logger"
)

func serveLanguage(t *testing.T, settings *i18n.Settings, prepare func(*http.Request)) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var resolved, logged string
	r := gin.New()
	r.Use(Language(settings))
	r.GET("/", func(c *gin.Context) {
		resolved = Resolver(c).Language().String()
		logged = c.GetString(logger.LanguageKey)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, resolved, logged
}

func TestLanguageDefaultsToSiteSetting(t *testing.T) {
	rec, lang, logged := serveLanguage(t, i18n.NewSettings(i18n.Amharic), nil)
	assert.Equal(t, "am", lang)
	assert.Equal(t, "am", logged)
	assert.Equal(t, "am", rec.Header().Get("Content-Language"))
}

func TestLanguageQueryWinsAndIsRemembered(t *testing.T) {
	rec, lang, _ := serveLanguage(t, i18n.NewSettings(i18n.English), func(r *http.Request) {
		r.URL.RawQuery = "lang=am"
		r.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "en"})
		r.Header.Set("Accept-Language", "en-US")
	})
	assert.Equal(t, "am", lang)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), LanguageCookie+"=am")
}

func TestLanguageCookieBeatsAcceptLanguage(t *testing.T) {
	_, lang, _ := serveLanguage(t, i18n.NewSettings(i18n.English), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "am"})
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	})
	assert.Equal(t, "am", lang)
}

func TestLanguageSiteSettingBeatsAcceptLanguage(t *testing.T) {
	settings := i18n.NewSettings(i18n.English)
	_, lang, _ := serveLanguage(t, settings, func(r *http.Request) {
		r.Header.Set("Accept-Language", "am-ET,am;q=0.9,en;q=0.5")
	})
	assert.Equal(t, "en", lang)

	settings.SetLanguage(i18n.Amharic)
	_, lang, _ = serveLanguage(t, settings, func(r *http.Request) {
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	})
	assert.Equal(t, "am", lang)
}

func TestLanguageAcceptLanguageWithoutSettings(t *testing.T) {
	_, lang, _ := serveLanguage(t, nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "am-ET,am;q=0.9,en;q=0.5")
	})
	assert.Equal(t, "am", lang)

	_, lang, _ = serveLanguage(t, nil, nil)
	assert.Equal(t, "en", lang)
}

func TestLanguageUnknownQueryFallsThrough(t *testing.T) {
	rec, lang, _ := serveLanguage(t, i18n.NewSettings(i18n.English), func(r *http.Request) {
		r.URL.RawQuery = "lang=fr"
	})
	assert.Equal(t, "en", lang)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestResolverWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, i18n.English, Resolver(c).Language())
}
