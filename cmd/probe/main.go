// Command probe runs the battery round-robin rotation probe against one
// configured inverter and writes a plain-text timing/rotation report,
// the format an operator attaches to a GitHub issue when diagnosing
// battery-module enumeration problems.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/device"
	luxlogger "github.com/eg4lux/luxpower/internal/logger"
	"github.com/eg4lux/luxpower/internal/probe"
	"github.com/eg4lux/luxpower/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./configs/config.json)")
	serial := flag.String("serial", "", "serial of the inverter to probe (defaults to the first configured inverter)")
	iterations := flag.Int("iterations", 0, "number of probe iterations (0 = auto from battery_count)")
	delaySeconds := flag.Float64("delay", 0, "seconds between reads (0 = transport-appropriate default)")
	outputDir := flag.String("output-dir", ".", "directory to write the probe report into")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe: load config: %v\n", err)
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
					return runProbe(ctx, cfg, station, log, *serial, *iterations, *delaySeconds, *outputDir)
				},
			})
		}),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(1)
	}
	_ = app.Stop(context.Background())
}

func runProbe(ctx context.Context, cfg *config.Config, station *device.Station, log logger.Logger, serial string, iterations int, delaySeconds float64, outputDir string) error {
	inverters := station.AllInverters()
	if len(inverters) == 0 {
		return fmt.Errorf("no inverters configured")
	}

	var inv *device.Inverter
	if serial == "" {
		inv = inverters[0]
	} else {
		for _, candidate := range inverters {
			if candidate.Serial == serial {
				inv = candidate
				break
			}
		}
	}
	if inv == nil {
		return fmt.Errorf("inverter %q not found", serial)
	}

	bank, err := inv.Battery(ctx, true)
	if err != nil {
		log.Warn("initial battery read failed, probing anyway", logger.Err(err))
	}
	batteryCount := 0
	if bank != nil {
		batteryCount = len(bank.Modules)
	}

	if iterations <= 0 {
		iterations = probe.DefaultIterations(batteryCount)
	}
	isDongle := false
	for _, dc := range cfg.Devices {
		if dc.ID == inv.Serial {
			isDongle = dc.Transport == "dongle"
			break
		}
	}
	delay := probe.DefaultDelay(isDongle)
	if delaySeconds > 0 {
		delay = time.Duration(delaySeconds * float64(time.Second))
	}

	fmt.Printf("probing %s: %d iterations, %s delay\n", inv.Serial, iterations, delay)
	records := probe.RunIterations(ctx, inv, iterations, delay)
	analysis := probe.Analyze(records)

	report := formatReport(inv.Serial, iterations, delay, records, analysis)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("battery_probe_%s_%s.txt", inv.Serial, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func formatReport(serial string, iterations int, delay time.Duration, records []probe.IterationRecord, a probe.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Battery Round-Robin Probe — %s\n", serial)
	fmt.Fprintf(&b, "Iterations: %d\n", iterations)
	fmt.Fprintf(&b, "Delay between reads: %s\n\n", delay)

	fmt.Fprintf(&b, "Read reliability: %d/%d valid, %d empty, %d failed\n\n", a.Valid, a.Total, a.Empty, a.Failed)

	fmt.Fprintf(&b, "Page frequency (%d valid reads):\n", a.Valid)
	for _, key := range a.PageOrder {
		count := a.PageFrequency[key]
		pct := 0.0
		if a.Valid > 0 {
			pct = float64(count) / float64(a.Valid) * 100
		}
		fmt.Fprintf(&b, "  pos=[%s]: %d reads (%.0f%%)\n", key, count, pct)
	}

	fmt.Fprintf(&b, "\nPage transitions: %d\n", len(a.Transitions))
	for _, t := range a.Transitions {
		fmt.Fprintf(&b, "  t=%7.2fs: pos=%v -> pos=%v\n", t.ElapsedAt.Seconds(), t.From, t.To)
	}

	if a.MeanInterval > 0 {
		fmt.Fprintf(&b, "\nRotation timing:\n")
		fmt.Fprintf(&b, "  Mean between transitions: %s\n", a.MeanInterval)
		fmt.Fprintf(&b, "  Min: %s  Max: %s\n", a.MinInterval, a.MaxInterval)
		fmt.Fprintf(&b, "  Estimated full cycle: %s\n", a.EstimatedFullCycle)
	}

	if len(a.HoldDurations) > 0 {
		fmt.Fprintf(&b, "\nPage hold durations:\n")
		for key, durations := range a.HoldDurations {
			fmt.Fprintf(&b, "  pos=[%s]: %v\n", key, durations)
		}
	}

	return b.String()
}
