// Package telemetry drives the device façade's per-device poll loop and
// mirrors refreshed snapshots into whichever optional store sinks are
// configured. Apart from cmd/apiserver, which imports internal/store
// only to wire store.Module, it is the one package in this codebase that
// imports internal/store — the device/decode/transport layers underneath
// never do, so the core library stays persistence-agnostic while the
// long-lived daemon still gets the reference codebase's aligned-tick
// polling idiom (grounded on internal/bms's baseDataPollLoop).
package telemetry

import (
	"context"
	"time"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/device"
	"github.com/eg4lux/luxpower/internal/store"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Poller owns one aligned-tick goroutine per configured device, each
// refreshing that device's caches and, when the corresponding sink is
// configured, writing the fresh snapshot through.
type Poller struct {
	station  *device.Station
	influx   *store.InfluxStore
	postgres *store.PostgresStore
	log      logger.Logger

	intervals map[string]time.Duration

	cancel context.CancelFunc
}

// NewPoller builds a Poller from the station and the per-device poll
// intervals declared in configuration.
func NewPoller(cfg *config.Config, station *device.Station, influx *store.InfluxStore, postgres *store.PostgresStore, log logger.Logger) *Poller {
	if log == nil {
		log = logger.GetLogger()
	}
	intervals := make(map[string]time.Duration, len(cfg.Devices))
	for _, dc := range cfg.Devices {
		intervals[dc.ID] = dc.PollInterval
	}
	return &Poller{
		station:   station,
		influx:    influx,
		postgres:  postgres,
		log:       log.With(logger.String("component", "telemetry_poller")),
		intervals: intervals,
	}
}

// Start launches one polling goroutine per inverter and per GridBOSS
// companion in the station.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for _, inv := range p.station.AllInverters() {
		go p.pollInverter(ctx, inv)
	}
	for _, g := range p.station.Groups {
		if g.MID != nil {
			go p.pollMID(ctx, g.MID)
		}
	}
}

// Stop cancels every polling goroutine this Poller started.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) interval(serial string) time.Duration {
	if d, ok := p.intervals[serial]; ok && d > 0 {
		return d
	}
	return 30 * time.Second
}

func (p *Poller) pollInverter(ctx context.Context, inv *device.Inverter) {
	interval := p.interval(inv.Serial)
	nextTick := time.Now().Truncate(interval).Add(interval)
	timer := time.NewTimer(time.Until(nextTick))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.refreshInverter(ctx, inv)
			nextTick = time.Now().Truncate(interval).Add(interval)
			timer.Reset(time.Until(nextTick))
		}
	}
}

func (p *Poller) refreshInverter(ctx context.Context, inv *device.Inverter) {
	if err := inv.Refresh(ctx, false, false); err != nil {
		p.log.Error("inverter refresh failed", logger.String("serial", inv.Serial), logger.Err(err))
		if p.postgres != nil {
			if saveErr := p.postgres.SaveEvent(inv.Serial, "refresh_error", "warning", err.Error(), 0); saveErr != nil {
				p.log.Error("failed to persist refresh-error event", logger.Err(saveErr))
			}
		}
		return
	}

	if p.influx == nil {
		return
	}
	if runtime, err := inv.Runtime(ctx, false); err == nil && runtime != nil {
		p.influx.WriteRuntime(inv.Serial, runtime)
	}
	if energy, err := inv.Energy(ctx, false); err == nil && energy != nil {
		p.influx.WriteEnergy(inv.Serial, energy)
	}
	if bank, err := inv.Battery(ctx, false); err == nil && bank != nil {
		p.influx.WriteBattery(inv.Serial, bank)
	}
}

func (p *Poller) pollMID(ctx context.Context, mid *device.MID) {
	interval := p.interval(mid.Serial)
	nextTick := time.Now().Truncate(interval).Add(interval)
	timer := time.NewTimer(time.Until(nextTick))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			runtime, err := mid.Runtime(ctx, true)
			if err != nil {
				p.log.Error("gridboss refresh failed", logger.String("serial", mid.Serial), logger.Err(err))
			} else if runtime != nil && p.influx != nil {
				p.influx.WriteGridBOSS(mid.Serial, runtime)
			}
			nextTick = time.Now().Truncate(interval).Add(interval)
			timer.Reset(time.Until(nextTick))
		}
	}
}
