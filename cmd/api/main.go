package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ai-readiness/internal/bootstrap"
	"github.com/bryanwahyu/ai-readiness/internal/config"
	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/infra/httpserver"
	"github.com/bryanwahyu/ai-readiness/internal/middleware"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := bootstrap.Logger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer app.Close()

	app.Service.OnScore = func(s assessment.Section, err error) {
		middleware.RecordScore(int(s), err)
	}

	dbCheck := &middleware.DatabaseHealthChecker{DB: app.DB}
	checkers := map[string]middleware.HealthChecker{
		"database":    dbCheck,
		"ai_provider": middleware.ProviderChecker{Configured: app.ProviderReady, Name: cfg.AI.Provider},
	}
	handler := httpserver.NewRouter(app.Service, httpserver.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		APIKeys:        middleware.KeysFromList(cfg.Auth.APIKeys),
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		RateLimiter:    middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		Checkers:       checkers,
		ReadyCheckers:  map[string]middleware.HealthChecker{"database": dbCheck},
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
