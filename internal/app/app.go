package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-analytics/external/cricinfo"
	"github.com/riskibarqy/cricket-analytics/internal/config"
	"github.com/riskibarqy/cricket-analytics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-analytics/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-analytics/internal/platform/logging"
	"github.com/riskibarqy/cricket-analytics/internal/platform/resilience"
	"github.com/riskibarqy/cricket-analytics/internal/usecase"
)

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	db, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	teamRepo := postgres.NewTeamInningsRepository(db)
	battingRepo := postgres.NewBattingInningsRepository(db)
	bowlingRepo := postgres.NewBowlingInningsRepository(db)

	cricinfoClient := cricinfo.NewClient(cricinfo.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.CricinfoTimeout},
		BaseURL:    cfg.CricinfoBaseURL,
		Timeout:    cfg.CricinfoTimeout,
		MaxRetries: cfg.CricinfoMaxRetries,
		MaxPages:   cfg.CricinfoMaxPages,
		Logger:     logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricinfoCircuitEnabled,
			FailureThreshold: cfg.CricinfoCircuitFailureCount,
			OpenTimeout:      cfg.CricinfoCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricinfoCircuitHalfOpenMaxReq,
		},
	})

	ingestionSvc := usecase.NewIngestionService(
		cricinfoClient,
		teamRepo,
		battingRepo,
		bowlingRepo,
		cfg.IngestDefaultStartDate,
		logger,
	)
	analyticsSvc := usecase.NewAnalyticsService(teamRepo, battingRepo, bowlingRepo, logger)
	refreshSvc := usecase.NewRefreshService(ingestionSvc, cfg.RefreshMaxWorkers)

	handler := httpapi.NewHandler(ingestionSvc, analyticsSvc, refreshSvc, dbHealth{db: db}, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(func() {
		_ = db.Close()
	})

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

type dbHealth struct {
	db *sqlx.DB
}

func (h dbHealth) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
