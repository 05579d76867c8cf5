// Command diag connects to every configured device and writes a
// diagnostic register-dump archive (data.json/data.md/data.csv/data.bin)
// per device, for attaching to a bug report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/device"
	"github.com/eg4lux/luxpower/internal/diag"
	luxlogger "github.com/eg4lux/luxpower/internal/logger"
	"github.com/eg4lux/luxpower/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./configs/config.json)")
	outputDir := flag.String("output-dir", ".", "directory to write diagnostic archives into")
	noSanitize := flag.Bool("no-sanitize", false, "do not mask device serial numbers in report contents")
	flag.Parse()

	sanitize := !*noSanitize

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "diag: load config: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		fx.Supply(cfg),
		luxlogger.FxLogger,
		logger.Module,
		device.Module,
		fx.Invoke(func(lc fx.Lifecycle, station *device.Station, log logger.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return runDiag(ctx, station, log, *outputDir, sanitize)
				},
			})
		}),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "diag: %v\n", err)
		os.Exit(1)
	}
	_ = app.Stop(context.Background())
}

func runDiag(ctx context.Context, station *device.Station, log logger.Logger, outputDir string, sanitize bool) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, inv := range station.AllInverters() {
		report := diag.Collect(ctx, inv, inv.Serial, inv.Family, diag.DefaultInputRanges, diag.DefaultHoldingRanges)
		if err := writeArchive(report, outputDir, sanitize); err != nil {
			log.Error("failed to write diagnostic archive", logger.String("serial", inv.Serial), logger.Err(err))
			continue
		}
	}

	for _, g := range station.Groups {
		if g.MID == nil {
			continue
		}
		report := diag.Collect(ctx, g.MID, g.MID.Serial, "GRIDBOSS", diag.DefaultInputRanges, diag.DefaultHoldingRanges)
		if err := writeArchive(report, outputDir, sanitize); err != nil {
			log.Error("failed to write diagnostic archive", logger.String("serial", g.MID.Serial), logger.Err(err))
		}
	}

	return nil
}

func writeArchive(report *diag.Report, outputDir string, sanitize bool) error {
	name := report.FileBaseName(sanitize) + ".zip"
	path := filepath.Join(outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteZIP(f, sanitize); err != nil {
		return fmt.Errorf("write zip: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
