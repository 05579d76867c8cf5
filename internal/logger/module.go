package logger

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/eg4lux/luxpower/internal/config"
)

// FxLogger is an Fx option that drives Fx's own internal startup/
// shutdown event stream through a dedicated, sampled zap.Logger,
// independent of the application Logger the rest of the codebase uses
// via pkg/logger.
var FxLogger = fx.WithLogger(provideFxEventLogger)

func provideFxEventLogger(cfg *config.Config) (fxevent.Logger, error) {
	zapLog, err := NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}
	fxLog := &fxevent.ZapLogger{Logger: zapLog}
	fxLog.UseLogLevel(zapcore.DebugLevel)
	return fxLog, nil
}
