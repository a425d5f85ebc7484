// Package bootstrap builds the service graph from configuration; both the
// API server and the operator CLI start through it.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bryanwahyu/ai-readiness/internal/application"
	appai "github.com/bryanwahyu/ai-readiness/internal/application/ai"
	appassess "github.com/bryanwahyu/ai-readiness/internal/application/assessments"
	"github.com/bryanwahyu/ai-readiness/internal/config"
	"github.com/bryanwahyu/ai-readiness/internal/domain/ai"
	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/infra/ai/gemini"
	"github.com/bryanwahyu/ai-readiness/internal/infra/ai/openai"
	"github.com/bryanwahyu/ai-readiness/internal/infra/ai/prompt"
	"github.com/bryanwahyu/ai-readiness/internal/infra/db/migrations"
	"github.com/bryanwahyu/ai-readiness/internal/infra/db/sqlstore"
	minioStore "github.com/bryanwahyu/ai-readiness/internal/infra/storage"
)

// Logger builds a zap logger; development mode logs readable console lines.
func Logger(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// App is the wired service graph
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Store    *sqlstore.Store
	Service  *appassess.Service
	Provider ai.Client
	// ProviderReady is false when no API key is configured.
	ProviderReady bool
}

// Close releases the database.
func (a *App) Close() error { return a.DB.Close() }

// Open connects the database, applies migrations and wires the service.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlstore.Connect(ctx, dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", dialect.Name(), err)
	}
	if err := migrations.Up(db, dialect.Name()); err != nil {
		db.Close()
		return nil, err
	}
	store := sqlstore.NewStore(db, dialect)

	provider, ready, err := Provider(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !ready {
		log.Warn("no AI API key configured; scoring requests will fail", zap.String("provider", cfg.AI.Provider))
	}

	var artifacts assessment.ArtifactStore
	if cfg.Minio.Enabled {
		st, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:   cfg.Minio.Endpoint,
			Region:     cfg.Minio.Region,
			Bucket:     cfg.Minio.BucketName,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			UseSSL:     cfg.Minio.UseSSL,
			PresignTTL: cfg.Minio.PresignTTL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		artifacts = st
	}

	svc := &appassess.Service{
		Repo:   store,
		RunLog: store.Runs(),
		AI: appai.NewService(provider, appai.Options{
			Timeout:     cfg.AI.Timeout,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		}, log),
		Prompts:     prompt.DefaultResolver(),
		Artifacts:   artifacts,
		Clock:       application.SystemClock{},
		Logger:      log,
		Parallelism: cfg.AI.Parallelism,
	}
	log.Info("store ready",
		zap.String("driver", dialect.Name()),
		zap.String("provider", provider.Name()),
		zap.Bool("archive", cfg.Minio.Enabled))
	return &App{Config: cfg, DB: db, Store: store, Service: svc, Provider: provider, ProviderReady: ready}, nil
}

// Provider selects the text-generation client. Without an API key it
// returns a client whose every call fails with a configuration error.
func Provider(ctx context.Context, cfg *config.Config) (ai.Client, bool, error) {
	name := strings.ToLower(cfg.AI.Provider)
	if cfg.AI.APIKey == "" {
		return unconfigured{name: name}, false, nil
	}
	switch name {
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			return nil, false, err
		}
		return c, true, nil
	case "openai":
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout), true, nil
	}
	return nil, false, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
}

type unconfigured struct{ name string }

func (u unconfigured) Name() string { return u.name + "/unconfigured" }

func (u unconfigured) Complete(context.Context, ai.Request) (string, error) {
	return "", fmt.Errorf("%w: no API key for provider %s", assessment.ErrConfiguration, u.name)
}
