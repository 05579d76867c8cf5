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
	"github.com/eg4lux/luxpower/internal/xerrors"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// MID is the GridBOSS/MID grid-management companion device. Unlike an
// Inverter, it exposes its telemetry over holding registers (function
// code 0x03) rather than input registers, and has no battery bank or
// energy-monotonicity history of its own — it reports AC-side flows,
// not DC storage.
type MID struct {
	Serial string

	transport    transport.Transport
	orchestrator *orchestrator.Orchestrator
	log          logger.Logger

	runtime *ttlCache[*data.MidboxRuntimeData]
}

// NewMID builds a MID façade over an already-connected transport.
func NewMID(serial string, t transport.Transport, log logger.Logger) *MID {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.With(logger.String("device_serial", serial))
	return &MID{
		Serial:       serial,
		transport:    t,
		orchestrator: orchestrator.New(t, 50*time.Millisecond),
		log:          log,
		runtime:      newTTLCache[*data.MidboxRuntimeData](runtimeTTL),
	}
}

// IsConnected reports whether the underlying transport is currently
// connected, satisfying the health package's service-checker interface.
func (m *MID) IsConnected() bool {
	return m.transport.IsConnected()
}

// ReadGroup exposes a raw register read through the MID's own
// transport, satisfying the diag package's Reader interface.
func (m *MID) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	return m.transport.ReadGroup(ctx, start, count, input)
}

// Runtime returns the cached GridBOSS runtime snapshot, refreshing it
// first if stale or force is set.
func (m *MID) Runtime(ctx context.Context, force bool) (*data.MidboxRuntimeData, error) {
	if err := m.runtime.Refresh(force, func() (*data.MidboxRuntimeData, bool, error) {
		snap, err := m.orchestrator.ReadAllHolding(ctx, registry.GridBOSSRegisterGroups)
		if err != nil {
			return nil, false, fmt.Errorf("read gridboss registers: %w", err)
		}
		return data.FromGridBOSSSnapshot(snap), true, nil
	}); err != nil {
		return nil, err
	}
	v, _, ok := m.runtime.Get()
	if !ok {
		return nil, nil
	}
	return v, nil
}

// DetectDeviceType reads holding register 19 and reports whether the
// device identifies itself as a GridBOSS (code 50) or, by default, an
// ordinary inverter.
func DetectDeviceType(ctx context.Context, t transport.Transport) (registry.ModelFamily, error) {
	snap, err := t.ReadGroup(ctx, registry.DeviceTypeRegister, 1, false)
	if err != nil {
		return "", fmt.Errorf("read device type register: %w", err)
	}
	code, ok := snap[registry.DeviceTypeRegister]
	if !ok {
		return "", &xerrors.DeviceError{Serial: "", Reason: "device type register absent from response"}
	}
	if code == registry.DeviceTypeCodeGridBOSS {
		return registry.FamilyGridBOSS, nil
	}
	return registry.FamilyEG4Hybrid, nil
}
