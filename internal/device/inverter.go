// Package device implements the device façade: per-device TTL caches,
// the Station/ParallelGroup/Inverter/MID/BatteryBank composition
// hierarchy, device-type detection, and parameter read/write. It is
// the top of the dependency graph — the only package callers of this
// module need to import directly for day-to-day polling.
package device

import (
	"context"
	"fmt"
	"time"

	"github.com/eg4lux/luxpower/internal/data"
	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/orchestrator"
	"github.com/eg4lux/luxpower/internal/registry"
	"github.com/eg4lux/luxpower/internal/transport"
	"github.com/eg4lux/luxpower/internal/validate"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Cache TTLs, per the operational tuning the device façade ships with:
// runtime and battery windows are short because they drive live
// dashboards, energy is a slow-moving accumulator, and parameters
// rarely change out from under a running device.
const (
	runtimeTTL   = 30 * time.Second
	batteryTTL   = 30 * time.Second
	energyTTL    = 5 * time.Minute
	parameterTTL = time.Hour
	firmwareTTL  = 24 * time.Hour
)

// Inverter is a single physical inverter: its transport, the register
// family it decodes against, and the independently-TTL'd caches backing
// InverterRuntimeData, InverterEnergyData, BatteryBankData, and the flat
// parameter map, plus a 24-hour firmware cache that no method reads or
// fills.
type Inverter struct {
	Serial string
	Family registry.ModelFamily

	transport    transport.Transport
	orchestrator *orchestrator.Orchestrator
	log          logger.Logger

	ratedPowerKW float64
	validator    *validate.EnergyValidator

	runtime    *ttlCache[*data.InverterRuntimeData]
	energy     *ttlCache[*data.InverterEnergyData]
	battery    *ttlCache[*data.BatteryBankData]
	parameters *ttlCache[map[string]float64]
	firmware   *ttlCache[string]
}

// NewInverter builds an Inverter façade over an already-constructed
// transport. ratedPowerKW of 0 is accepted (unknown at startup): the
// energy validator then uses its conservative default and the runtime
// power-magnitude canary is skipped. The value is fixed at construction;
// no parameter read updates it.
func NewInverter(serial string, family registry.ModelFamily, t transport.Transport, ratedPowerKW float64, log logger.Logger) *Inverter {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.With(logger.String("device_serial", serial))
	return &Inverter{
		Serial:       serial,
		Family:       family,
		transport:    t,
		orchestrator: orchestrator.New(t, 50*time.Millisecond),
		log:          log,
		ratedPowerKW: ratedPowerKW,
		validator:    validate.NewEnergyValidator(log),
		runtime:      newTTLCache[*data.InverterRuntimeData](runtimeTTL),
		energy:       newTTLCache[*data.InverterEnergyData](energyTTL),
		battery:      newTTLCache[*data.BatteryBankData](batteryTTL),
		parameters:   newTTLCache[map[string]float64](parameterTTL),
		firmware:     newTTLCache[string](firmwareTTL),
	}
}

// ReadGroup exposes a raw register read through the inverter's own
// transport, satisfying the battery-probe package's Reader interface
// without requiring callers to reach into the transport directly.
func (inv *Inverter) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	return inv.transport.ReadGroup(ctx, start, count, input)
}

// IsConnected reports whether the underlying transport is currently
// connected, satisfying the health package's service-checker interface.
func (inv *Inverter) IsConnected() bool {
	return inv.transport.IsConnected()
}

// RatedPowerWatts returns the rated-power canary ceiling (2x margin),
// or 0 if rated power is not yet known, disabling the power-magnitude
// canary.
func (inv *Inverter) RatedPowerWatts() float64 {
	if inv.ratedPowerKW <= 0 {
		return 0
	}
	return inv.ratedPowerKW * 2000
}

// Runtime returns the cached runtime snapshot, refreshing it first if
// stale or force is set.
func (inv *Inverter) Runtime(ctx context.Context, force bool) (*data.InverterRuntimeData, error) {
	if err := inv.runtime.Refresh(force, func() (*data.InverterRuntimeData, bool, error) {
		return inv.fetchRuntime(ctx)
	}); err != nil {
		return nil, err
	}
	v, _, ok := inv.runtime.Get()
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (inv *Inverter) fetchRuntime(ctx context.Context) (*data.InverterRuntimeData, bool, error) {
	snap, err := inv.orchestrator.ReadAllInput(ctx, registry.InputRegisterGroups)
	if err != nil {
		return nil, false, fmt.Errorf("read runtime registers: %w", err)
	}
	fresh := data.FromSnapshot(snap, inv.Family)

	bank, bankErr := inv.Battery(ctx, false)
	if bankErr != nil {
		inv.log.Warn("battery read failed while validating runtime snapshot", logger.String("error", bankErr.Error()))
		bank = nil
	}

	if validate.RuntimeCorrupt(fresh, bank, inv.ratedPowerKW) {
		inv.log.Warn("runtime snapshot failed corruption canary, keeping prior cache")
		return nil, false, nil
	}
	return fresh, true, nil
}

// Energy returns the cached energy snapshot, refreshing it first if
// stale or force is set. The energy counters live in the same
// input-register groups as runtime, but an energy refresh issues its own
// orchestrator read of those groups.
func (inv *Inverter) Energy(ctx context.Context, force bool) (*data.InverterEnergyData, error) {
	if err := inv.energy.Refresh(force, func() (*data.InverterEnergyData, bool, error) {
		return inv.fetchEnergy(ctx)
	}); err != nil {
		return nil, err
	}
	v, _, ok := inv.energy.Get()
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (inv *Inverter) fetchEnergy(ctx context.Context) (*data.InverterEnergyData, bool, error) {
	snap, err := inv.orchestrator.ReadAllInput(ctx, registry.InputRegisterGroups)
	if err != nil {
		return nil, false, fmt.Errorf("read energy registers: %w", err)
	}
	fresh := data.FromEnergySnapshot(snap)
	accepted := inv.validator.Accept(inv.Serial, fresh, inv.ratedPowerKW)
	if !accepted {
		inv.log.Warn("energy snapshot failed monotonicity validation, keeping prior cache")
		return nil, false, nil
	}
	return fresh, true, nil
}

// Battery returns the decoded battery bank from the atomic rotation
// probe block, refreshing it first if stale or force is set.
func (inv *Inverter) Battery(ctx context.Context, force bool) (*data.BatteryBankData, error) {
	if err := inv.battery.Refresh(force, func() (*data.BatteryBankData, bool, error) {
		return inv.fetchBattery(ctx)
	}); err != nil {
		return nil, err
	}
	v, _, ok := inv.battery.Get()
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (inv *Inverter) fetchBattery(ctx context.Context) (*data.BatteryBankData, bool, error) {
	if inv.transport.ConsecutiveErrors() >= inv.transport.MaxConsecutiveErrors() {
		if err := inv.transport.Reconnect(ctx); err != nil {
			return nil, false, fmt.Errorf("reconnect before battery read: %w", err)
		}
	}
	snap, err := inv.transport.ReadGroup(ctx, registry.BatteryBlockBase, registry.BatteryBlockCount, true)
	if err != nil {
		return nil, false, fmt.Errorf("read battery block: %w", err)
	}
	bank := data.DecodeBatteryBank(snap)
	if bank.IsCorrupt() {
		inv.log.Warn("battery snapshot failed corruption canary, keeping prior cache")
		return nil, false, nil
	}
	return bank, true, nil
}

// Refresh computes which caches are stale and issues exactly those
// reads concurrently, preserving prior cached data on per-fetch
// failures. includeParameters additionally refreshes the parameter
// cache, which is otherwise left to its own 1-hour TTL since parameter
// reads are comparatively expensive (three register ranges).
func (inv *Inverter) Refresh(ctx context.Context, force, includeParameters bool) error {
	type job struct {
		name string
		fn   func() error
	}
	jobs := []job{
		{"runtime", func() error { _, err := inv.Runtime(ctx, force); return err }},
		{"energy", func() error { _, err := inv.Energy(ctx, force); return err }},
		{"battery", func() error { _, err := inv.Battery(ctx, force); return err }},
	}
	if includeParameters {
		jobs = append(jobs, job{"parameters", func() error { _, err := inv.Parameters(ctx, force); return err }})
	}

	errCh := make(chan error, len(jobs))
	for _, j := range jobs {
		go func(name string, fn func() error) {
			if err := fn(); err != nil {
				inv.log.Error("refresh failed", logger.String("cache", name), logger.String("error", err.Error()))
				errCh <- fmt.Errorf("%s: %w", name, err)
				return
			}
			errCh <- nil
		}(j.name, j.fn)
	}

	var firstErr error
	for range jobs {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
