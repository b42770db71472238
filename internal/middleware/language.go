package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/logger"
)

const (
	// ContextResolverKey stores the request's *i18n.Resolver.
	ContextResolverKey = "resolver"
	// LanguageCookie remembers a visitor's explicit language choice.
	LanguageCookie = "court_lang"
	// LanguageQuery switches language for one request and remembers it.
	LanguageQuery = "lang"

	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// Language resolves the active language for the request in this order:
// ?lang, the court_lang cookie, then the site default. Accept-Language is
// only consulted when no site settings are configured.
func Language(settings *i18n.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := resolveLanguage(c, settings)
		c.Set(ContextResolverKey, i18n.NewResolver(lang))
		c.Set(logger.LanguageKey, lang.String())
		c.Header("Content-Language", lang.String())
		c.Next()
	}
}

func resolveLanguage(c *gin.Context, settings *i18n.Settings) i18n.Language {
	if raw := c.Query(LanguageQuery); i18n.Recognized(raw) {
		lang := i18n.Parse(raw)
		RememberLanguage(c, lang)
		return lang
	}
	if raw, err := c.Cookie(LanguageCookie); err == nil && i18n.Recognized(raw) {
		return i18n.Parse(raw)
	}
	if settings != nil {
		return settings.Language()
	}
	if lang, ok := i18n.FromAcceptLanguage(c.GetHeader("Accept-Language")); ok {
		return lang
	}
	return i18n.English
}

// RememberLanguage stores the visitor's choice in the language cookie.
func RememberLanguage(c *gin.Context, lang i18n.Language) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(LanguageCookie, lang.String(), languageCookieMaxAge, "/", "", false, false)
}

// Resolver returns the request's resolver. Without the Language middleware it
// resolves to English.
func Resolver(c *gin.Context) *i18n.Resolver {
	if value, ok := c.Get(ContextResolverKey); ok {
		if r, ok := value.(*i18n.Resolver); ok {
			return r
		}
	}
	return i18n.NewResolver(i18n.English)
}
