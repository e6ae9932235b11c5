// Package bootstrap wires configuration, infrastructure adapters and
// use cases into the running API application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	httpadapter "github.com/banguela/school-admin/internal/adapters/http"
	"github.com/banguela/school-admin/internal/config"
	"github.com/banguela/school-admin/internal/core/ports"
	"github.com/banguela/school-admin/internal/core/usecase"
	"github.com/banguela/school-admin/internal/infrastructure/chart/gochart"
	"github.com/banguela/school-admin/internal/infrastructure/composer"
	"github.com/banguela/school-admin/internal/infrastructure/events/nats"
	"github.com/banguela/school-admin/internal/infrastructure/extractor"
	"github.com/banguela/school-admin/internal/infrastructure/llm/gemini"
	"github.com/banguela/school-admin/internal/infrastructure/repository/postgres"
	"github.com/banguela/school-admin/internal/infrastructure/resilience"
	"github.com/banguela/school-admin/internal/observability/metrics"
	"github.com/banguela/school-admin/internal/session"
)

type App struct {
	Handler http.Handler

	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	app.closers = append(app.closers, func() { _ = db.Close() })

	repo := postgres.NewStudentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var events ports.EventPublisher
	publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubjectPrefix)
	if err != nil {
		logger.Warn("nats_unavailable", "error", err)
	} else {
		events = publisher
		app.closers = append(app.closers, publisher.Close)
	}

	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:     cfg.BreakerEnabled,
		BreakerOpenTimeout: time.Duration(cfg.BreakerOpenTimeoutSeconds) * time.Second,
	})

	var content ports.ContentProducer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, executor)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		content = usecase.NewContentService(client)
	} else {
		logger.Warn("content_generation_disabled", "reason", "missing api key")
	}

	students := usecase.NewStudentService(repo, events)
	exporter := usecase.NewExportService(
		repo,
		extractor.New(),
		gochart.New(cfg.ChartWidth, cfg.ChartHeight, cfg.ChartScale),
		composer.New(),
		events,
	)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	router := httpadapter.NewRouter(
		students,
		exporter,
		content,
		session.NewManager(),
		httpadapter.AuthConfig{
			Username:     cfg.AdminUser,
			PasswordHash: passwordHash,
			Secret:       []byte(cfg.JWTSecret),
			TokenTTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		},
		httpadapter.Limits{
			MaxUploadBytes:  cfg.MaxUploadBytes,
			PreviewMaxChars: cfg.PreviewMaxChars,
			RateLimitRPS:    cfg.APIRateLimitRPS,
			RateLimitBurst:  cfg.APIRateLimitBurst,
			MaxInFlight:     cfg.APIMaxInFlight,
		},
		metrics.NewHTTPServerMetrics("school-admin-api"),
	)
	app.Handler = router.Handler()
	return app, nil
}
