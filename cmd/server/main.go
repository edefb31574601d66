package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"salespipeline/internal/config"
	cronrunner "salespipeline/internal/cron"
	"salespipeline/internal/db"
	"salespipeline/internal/handler"
	"salespipeline/internal/logger"
	"salespipeline/internal/notify"
	"salespipeline/internal/repository"
	gormrepository "salespipeline/internal/repository/gorm"
	"salespipeline/internal/repository/memory"
	"salespipeline/internal/risk"
	"salespipeline/internal/service"

	_ "salespipeline/docs"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfgPath := os.Getenv("SP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SP_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var store repository.Repository
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		logger.Warn("db.dsn is empty, using in-memory store")
		store = memory.New()
	} else {
		dbConn, err := db.Open(cfg.DB, logger)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.Ping(pingCtx, dbConn); err != nil {
			logger.Warn("db ping failed", zap.Error(err))
		}
		cancel()
		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			logger.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		store = gormrepository.New(dbConn.Gorm)
	}

	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	scorer := &risk.Scorer{StalledDays: cfg.Risk.StalledDays, Logger: logger}
	dealSvc := &service.DealService{Repo: store, Scorer: scorer, Logger: logger}
	analyticsSvc := &service.AnalyticsService{
		Repo:   store,
		Flags:  settingsSvc,
		Scorer: scorer,
		Config: cfg.Forecast,
		Logger: logger,
	}
	seedSvc := &service.SeedService{Repo: store, Flags: settingsSvc, Logger: logger}
	if cfg.App.SeedOnBoot {
		if seeded, err := seedSvc.SeedIfEmpty(context.Background()); err != nil {
			logger.Warn("seed on boot failed", zap.Error(err))
		} else if seeded {
			logger.Info("seeded demo data on boot")
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())
	engine.Use(handler.AccessLogMiddleware(logger))

	healthHandler := &handler.HealthHandler{Store: store}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	dealHandler := &handler.DealHandler{Deals: dealSvc, Analytics: analyticsSvc, Logger: logger}
	dealHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{Analytics: analyticsSvc, Logger: logger}
	analyticsHandler.Register(engine)
	repHandler := &handler.RepHandler{
		Reps:        &service.RepService{Repo: store},
		Territories: &service.TerritoryService{Repo: store, Deals: store},
		Logger:      logger,
	}
	repHandler.Register(engine)
	salesRepHandler := &handler.SalesRepHandler{
		SalesReps: &service.SalesRepService{Repo: store, Deals: store, Logger: logger},
		Seed:      seedSvc,
		Logger:    logger,
	}
	salesRepHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Settings: settingsSvc, Logger: logger}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		digestSvc := &service.StalledDigestService{
			Analytics: analyticsSvc,
			Sender:    notify.NewWebhookSender(cfg.Notify.WebhookURL, cfg.Notify.Timeout),
			Flags:     settingsSvc,
			Logger:    logger,
		}
		if _, err := cronRunner.Add("stalled_digest", cfg.Cron.StalledDigest, digestSvc.RunOnce); err != nil {
			logger.Warn("cron register stalled digest failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed", zap.Error(err))
	}
}
