// Package transport implements the transport core: connection
// lifecycle, per-transport locking, retry policy with exponential
// backoff, consecutive-error tracking, auto-reconnect, and adaptive
// inter-group pacing — shared by every Modbus-flavored transport
// (standard TCP, RTU-over-serial, and the proprietary WiFi dongle).
//
// Grounded on _modbus_base.py's BaseModbusTransport and the reference
// codebase's pkg/modbus.Client connection-state handling.
package transport

import (
	"context"

	"github.com/eg4lux/luxpower/internal/decode"
)

// Capabilities describes what a concrete transport can do, so the device
// façade can surface UnsupportedOperationError instead of attempting an
// operation the transport doesn't offer.
type Capabilities struct {
	SupportsHoldingWrite bool
	SupportsSerialNumber bool
	MaxRegistersPerRead  uint16
}

// Transport is the register-level contract every Modbus-flavored
// transport (TCP, RTU, dongle) satisfies. The Register-Group
// Orchestrator and Device Façade depend only on this interface, never on
// a concrete transport type.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
	Capabilities() Capabilities

	// ReadGroup reads one contiguous register window and returns it as a
	// snapshot. input selects input registers (FC 0x04) vs holding
	// registers (FC 0x03).
	ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error)

	// WriteRegisters writes one or more consecutive holding registers.
	// len(values)==1 uses function code 0x06 (write single); more than
	// one uses function code 0x10 (write multiple) unless the caller
	// forces single-register mode (schedule registers).
	WriteRegisters(ctx context.Context, start uint16, values []uint16, forceSingle bool) error

	// ConsecutiveErrors reports the current consecutive-failure count,
	// reset to zero on every successful read or write.
	ConsecutiveErrors() int

	// MaxConsecutiveErrors reports the configured threshold at which
	// callers should force a reconnect before their next operation.
	MaxConsecutiveErrors() int

	// Reconnect disconnects and reconnects, resetting the consecutive-
	// error counter. Safe to call concurrently; a racing caller that
	// already reset the counter below threshold is a no-op.
	Reconnect(ctx context.Context) error
}
