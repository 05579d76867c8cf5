package logger

import (
	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
)

// Module provides the logger to the Fx application. It configures the
// global logger as a side effect so package-level Debug/Info/Warn/Error
// calls made outside the DI graph still reach the configured sink, and
// also provides the Logger instance directly for constructors that take
// it as a dependency.
var Module = fx.Module("logger",
	fx.Provide(ProvideLogger),
)

// ProvideLogger configures the global logger from application
// configuration and returns it for injection.
func ProvideLogger(cfg *config.Config) (Logger, error) {
	zapLog, err := NewZapLogger(Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format, Output: cfg.Logger.Output})
	if err != nil {
		return nil, err
	}
	SetGlobalLogger(zapLog)
	return zapLog, nil
}
