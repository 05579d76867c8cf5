// Package logger builds the zap.Logger that drives Fx's own internal
// event stream (fx.WithLogger). Application code logs through
// pkg/logger's Logger interface instead; this package exists solely to
// give the Fx runtime a concrete *zap.Logger, sampled the same way a
// busy inverter-polling process samples its own request logs.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eg4lux/luxpower/internal/config"
)

// NewLogger builds a sampled zap.Logger from the application's logger
// configuration: first 100 entries per second pass through, then 1 in
// 100 thereafter, so a noisy fx startup sequence or a flapping device
// connection can't flood the sink.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	case "", "stdout":
		sink = zapcore.AddSync(os.Stdout)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(file)
	}

	baseCore := zapcore.NewCore(encoder, sink, level)
	samplingCore := zapcore.NewSamplerWithOptions(baseCore, time.Second, 100, 100)

	return zap.New(samplingCore), nil
}
