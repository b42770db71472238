package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/finoteselam-court/court-portal-api/api/swagger"
	"github.com/finoteselam-court/court-portal-api/internal/handler"
	"github.com/finoteselam-court/court-portal-api/internal/repository"
	"github.com/finoteselam-court/court-portal-api/internal/router"
	"github.com/finoteselam-court/court-portal-api/internal/service"
	"github.com/finoteselam-court/court-portal-api/pkg/cache"
	"github.com/finoteselam-court/court-portal-api/pkg/config"
	"github.com/finoteselam-court/court-portal-api/pkg/database"
	"github.com/finoteselam-court/court-portal-api/pkg/export"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
	"github.com/finoteselam-court/court-portal-api/pkg/jobs"
	"github.com/finoteselam-court/court-portal-api/pkg/logger"
	"github.com/finoteselam-court/court-portal-api/pkg/mailer"
)

// @title Finote Selam Court Portal API
// @version 1.0.0
// @description Public news, contact intake and the administrator console of the court website.
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	announcementRepo := repository.NewAnnouncementRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	store := repository.NewContentStore(announcementRepo, submissionRepo)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)

	mailQueue := jobs.NewQueue("mail", mailer.JobHandler(mailer.New(cfg.Mail, logr)), jobs.QueueConfig{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.Retries,
		Logger:     logr,
	})
	mailQueue.Start(ctx)
	defer mailQueue.Stop()

	metricsSvc := service.NewMetricsService()
	languageSettings := i18n.NewSettings(i18n.Parse(cfg.Site.DefaultLanguage))

	announcementSvc := service.NewAnnouncementService(store, metricsSvc, logr)
	submissionSvc := service.NewSubmissionService(store, export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.FontDir), metricsSvc, logr)
	editors := service.NewEditorRegistry(announcementSvc)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Announcements: announcementRepo,
		Submissions:   submissionRepo,
		Logger:        logr,
	})
	authSvc := service.NewAuthService(service.AuthServiceParams{
		Users:    userRepo,
		Sessions: sessionRepo,
		Audit:    auditRepo,
		Mail:     mailQueue,
		Editors:  editors,
		Metrics:  metricsSvc,
		Logger:   logr,
		Config: service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
			SignInPath:        cfg.Admin.SignInPath,
			ResetURL:          cfg.Reset.URL,
			ResetTTL:          cfg.Reset.TTL,
			SiteName:          cfg.Site.Name,
		},
	})

	created, err := authSvc.EnsureBootstrapAdmin(ctx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword)
	if err != nil {
		logr.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	if created {
		logr.Info("bootstrap admin account created", zap.String("email", cfg.Admin.BootstrapEmail))
	}

	engine := router.New(router.Options{
		Env:            cfg.Env,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logr,
		Metrics:        metricsSvc,
		Language:       languageSettings,
		Auth:           authSvc,
		Audit:          auditRepo,
	}, router.Handlers{
		Public:        handler.NewPublicHandler(announcementSvc, submissionSvc, languageSettings, logr),
		Auth:          handler.NewAuthHandler(authSvc, cfg.Env == config.EnvProduction),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Editor:        handler.NewEditorHandler(editors, announcementSvc),
		Messages:      handler.NewSubmissionHandler(submissionSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Settings:      handler.NewSettingsHandler(authSvc, languageSettings),
		Metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"postgres": handler.PingFunc(db.PingContext),
			"redis":    sessionRepo,
		}),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "default_language", languageSettings.Language().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
