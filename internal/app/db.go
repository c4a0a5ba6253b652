package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/riskibarqy/cricket-analytics/internal/config"
)

// OpenDB connects to Postgres with traced connections and a bounded
// retry loop, so a cold database container does not kill the service at
// boot.
func OpenDB(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.DBConnectMaxAttempts; attempt++ {
		db, err := otelsqlx.Open("postgres", dsn, opts...)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		logger.WarnContext(ctx, "database connect failed",
			"attempt", attempt,
			"max_attempts", cfg.DBConnectMaxAttempts,
			"error", err,
		)

		if attempt == cfg.DBConnectMaxAttempts {
			break
		}
		timer := time.NewTimer(cfg.DBConnectRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", cfg.DBConnectMaxAttempts, lastErr)
}
