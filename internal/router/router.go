package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/finoteselam-court/court-portal-api/internal/handler"
	"github.com/finoteselam-court/court-portal-api/internal/middleware"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/pkg/config"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/logger"
	corsmiddleware "github.com/finoteselam-court/court-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/finoteselam-court/court-portal-api/pkg/middleware/requestid"
	"github.com/finoteselam-court/court-portal-api/pkg/response"
)

type authorizer interface {
	Authorize(ctx context.Context, token string) service.Decision
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Public        *handler.PublicHandler
	Auth          *handler.AuthHandler
	Announcements *handler.AnnouncementHandler
	Editor        *handler.EditorHandler
	Messages      *handler.SubmissionHandler
	Dashboard     *handler.DashboardHandler
	Settings      *handler.SettingsHandler
	Metrics       *handler.MetricsHandler
}

// Options carries the cross-cutting dependencies of the router.
type Options struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Language       *i18n.Settings
	Auth           authorizer
	Audit          auditRecorder
}

// New builds the gin engine with every route of the court portal.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if opts.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	api.Use(middleware.Language(opts.Language))

	api.GET("/news", h.Public.News)
	api.POST("/contact", h.Public.Contact)
	api.GET("/language", h.Public.Language)
	api.PUT("/language", h.Public.SetLanguage)

	guard := middleware.AdminGuard(opts.Auth)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, log, action, resource)
	}

	auth := api.Group("/auth")
	auth.POST("/sign-in", h.Auth.SignIn)
	auth.POST("/password/forgot", h.Auth.ForgotPassword)
	auth.POST("/password/reset", h.Auth.ResetPassword)
	auth.POST("/sign-out", guard, audit(models.AuditActionSignOut, "session"), h.Auth.SignOut)
	auth.GET("/session", guard, h.Auth.Session)

	admin := api.Group("/admin")
	admin.Use(guard)

	admin.GET("/dashboard", h.Dashboard.Admin)

	announcements := admin.Group("/announcements")
	announcements.GET("", h.Announcements.List)
	announcements.GET("/:id", h.Announcements.Get)
	announcements.POST("", audit(models.AuditActionAnnouncementCreate, "announcement"), h.Announcements.Create)
	announcements.PUT("/:id", audit(models.AuditActionAnnouncementUpdate, "announcement"), h.Announcements.Update)
	announcements.DELETE("/:id", audit(models.AuditActionAnnouncementDelete, "announcement"), h.Announcements.Delete)

	editor := admin.Group("/editor")
	editor.GET("", h.Editor.State)
	editor.POST("/create", h.Editor.StartCreate)
	editor.POST("/edit/:id", h.Editor.StartEdit)
	editor.PUT("/draft", h.Editor.UpdateDraft)
	editor.POST("/save", audit(models.AuditActionAnnouncementUpdate, "announcement_editor"), h.Editor.Save)
	editor.DELETE("", h.Editor.Cancel)

	messages := admin.Group("/messages")
	messages.GET("", h.Messages.List)
	messages.GET("/export", h.Messages.Export)
	messages.PATCH("/:id/read", audit(models.AuditActionSubmissionToggle, "contact_submission"), h.Messages.ToggleRead)

	settings := admin.Group("/settings")
	settings.PUT("/credentials", audit(models.AuditActionCredentialsUpdate, "admin_user"), h.Settings.UpdateCredentials)
	settings.PUT("/language", audit(models.AuditActionLanguageUpdate, "site_settings"), h.Settings.SetDefaultLanguage)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	return r
}
