// Command apiserver is the long-lived operational daemon: it connects to
// every configured device, serves the cached-snapshot HTTP API, and
// (when configured) mirrors telemetry into the optional InfluxDB/
// PostgreSQL sinks.
package main

import (
	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/api"
	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/device"
	"github.com/eg4lux/luxpower/internal/health"
	luxlogger "github.com/eg4lux/luxpower/internal/logger"
	"github.com/eg4lux/luxpower/internal/store"
	"github.com/eg4lux/luxpower/internal/telemetry"
	"github.com/eg4lux/luxpower/pkg/logger"
)

func main() {
	app := fx.New(
		// Configuration
		config.Module,

		// Logging
		logger.Module,
		luxlogger.FxLogger,

		// Device hierarchy
		device.Module,

		// Optional persistence sinks
		store.Module,

		// Telemetry mirroring (station -> sinks, when configured)
		telemetry.Module,

		// Health monitoring
		health.Module,

		// Operational HTTP API
		api.Module,
	)

	app.Run()
}
