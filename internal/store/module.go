package store

import (
	"context"

	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Module provides the optional persistence sinks to the Fx application.
// Both providers return a nil pointer, not an error, when their section
// of configuration is absent — callers that want persistence type-assert
// for nil before using either sink.
var Module = fx.Module("store",
	fx.Provide(
		ProvideInfluxStore,
		ProvidePostgresStore,
	),
	fx.Invoke(
		RegisterInfluxLifecycle,
		RegisterPostgresLifecycle,
	),
)

// ProvideInfluxStore connects to InfluxDB if configured, or returns nil
// if the sink is disabled.
func ProvideInfluxStore(cfg *config.Config, log logger.Logger) (*InfluxStore, error) {
	if !cfg.InfluxDB.Enabled() {
		return nil, nil
	}
	return NewInfluxStore(cfg.InfluxDB, log)
}

// ProvidePostgresStore connects to PostgreSQL if configured, or returns
// nil if the sink is disabled.
func ProvidePostgresStore(cfg *config.Config, log logger.Logger) (*PostgresStore, error) {
	if !cfg.Postgres.Enabled() {
		return nil, nil
	}
	return NewPostgresStore(cfg.Postgres, log)
}

// RegisterInfluxLifecycle closes the InfluxDB sink on application stop.
func RegisterInfluxLifecycle(lc fx.Lifecycle, s *InfluxStore) {
	if s == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
}

// RegisterPostgresLifecycle closes the PostgreSQL sink on application
// stop.
func RegisterPostgresLifecycle(lc fx.Lifecycle, s *PostgresStore) {
	if s == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
}
