package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ContextPrincipalKey stores the admin account the guard loaded.
	ContextPrincipalKey = "principal"
	// SessionCookie carries the access token for browser navigation.
	SessionCookie = "court_admin_session"
)

type authorizer interface {
	Authorize(ctx context.Context, token string) service.Decision
}

// AdminGuard admits only requests backed by a live administrator session.
// Denied browser navigations are redirected to the sign-in page; API calls get
// 401 with the redirect target in meta. Handlers behind the guard never run on deny.
func AdminGuard(auth authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := auth.Authorize(c.Request.Context(), AccessToken(c))
		if !decision.Allowed {
			deny(c, decision)
			return
		}
		c.Set(ContextUserKey, decision.Claims)
		c.Set(ContextPrincipalKey, decision.Principal)
		c.Next()
	}
}

// AccessToken reads the bearer token from the Authorization header, falling
// back to the session cookie.
func AccessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Claims returns the claims the guard stored, or nil.
func Claims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// Principal returns the admin account the guard loaded, or nil.
func Principal(c *gin.Context) *models.User {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

func deny(c *gin.Context, decision service.Decision) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, decision.Redirect)
		c.Abort()
		return
	}
	response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "sign in required"), map[string]interface{}{
		response.MetaRedirect: decision.Redirect,
		response.MetaNotice:   service.NoticeSignInRequired.Localize(Resolver(c)),
	})
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
