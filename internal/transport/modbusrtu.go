package transport

import (
	"context"
	"fmt"
	"time"

	svmodbus "github.com/simonvetter/modbus"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/xerrors"
)

// ModbusRTU is the RS-485/serial Modbus transport, wrapping
// simonvetter/modbus's client against a "rtu://" device URL. Inverters
// wired directly over RS-485 (rather than through the WiFi dongle or a
// TCP gateway) speak this variant; register semantics are identical to
// ModbusTCP, only the link layer differs.
type ModbusRTU struct {
	core *Core

	device   string
	baud     uint
	slaveID  uint8
	dataBits uint
	stopBits uint
	parity   uint

	client    *svmodbus.ModbusClient
	connected bool
}

// SerialConfig describes the RS-485 link parameters.
type SerialConfig struct {
	Device   string // e.g. "/dev/ttyUSB0"
	BaudRate uint
	DataBits uint
	StopBits uint
	Parity   uint // svmodbus.PARITY_NONE / PARITY_EVEN / PARITY_ODD
}

// NewModbusRTU constructs a ModbusRTU transport for the given serial
// device and unit id.
func NewModbusRTU(sc SerialConfig, slaveID uint8, cfg Config) *ModbusRTU {
	if sc.BaudRate == 0 {
		sc.BaudRate = 9600
	}
	if sc.DataBits == 0 {
		sc.DataBits = 8
	}
	if sc.StopBits == 0 {
		sc.StopBits = 1
	}
	return &ModbusRTU{
		core:     NewCore(cfg),
		device:   sc.Device,
		baud:     sc.BaudRate,
		slaveID:  slaveID,
		dataBits: sc.DataBits,
		stopBits: sc.StopBits,
		parity:   sc.Parity,
	}
}

func (t *ModbusRTU) Capabilities() Capabilities {
	return Capabilities{SupportsHoldingWrite: true, MaxRegistersPerRead: 125}
}

func (t *ModbusRTU) Connect(ctx context.Context) error {
	t.core.Lock()
	defer t.core.Unlock()

	client, err := svmodbus.NewClient(&svmodbus.ClientConfiguration{
		URL:      fmt.Sprintf("rtu://%s", t.device),
		Speed:    t.baud,
		DataBits: t.dataBits,
		StopBits: t.stopBits,
		Parity:   t.parity,
		Timeout:  t.core.Config.Timeout,
	})
	if err != nil {
		return &xerrors.ConnectionError{Op: "modbus rtu configure " + t.device, Cause: err}
	}
	if err := client.Open(); err != nil {
		t.connected = false
		return &xerrors.ConnectionError{Op: "modbus rtu open " + t.device, Cause: err}
	}
	client.SetUnitId(t.slaveID)
	t.client = client
	t.connected = true
	return nil
}

func (t *ModbusRTU) Disconnect(ctx context.Context) error {
	t.core.Lock()
	defer t.core.Unlock()
	t.connected = false
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

func (t *ModbusRTU) IsConnected() bool {
	t.core.Lock()
	defer t.core.Unlock()
	return t.connected
}

func (t *ModbusRTU) ConsecutiveErrors() int { return t.core.ConsecutiveErrors() }

// LastReadRetried reports whether the most recently completed ReadGroup
// call needed at least one retry.
func (t *ModbusRTU) LastReadRetried() bool { return t.core.LastReadRetried() }

func (t *ModbusRTU) Reconnect(ctx context.Context) error {
	t.core.Lock()
	needs := t.core.consecutiveErrorsUnlocked()
	t.core.Unlock()
	if !needs {
		return nil
	}
	_ = t.Disconnect(ctx)
	if err := t.Connect(ctx); err != nil {
		return err
	}
	t.core.ResetAfterReconnect()
	return nil
}

func (t *ModbusRTU) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	kind := "holding"
	regType := svmodbus.HOLDING_REGISTER
	if input {
		kind = "input"
		regType = svmodbus.INPUT_REGISTER
	}

	var lastErr error
	t.core.SetLastReadRetried(false)

	for attempt := 0; attempt <= t.core.Config.Retries; attempt++ {
		t.core.Lock()
		client := t.client
		connected := t.connected
		var regs []uint16
		var err error
		if !connected || client == nil {
			err = &xerrors.ConnectionError{Op: "modbus rtu not connected"}
		} else {
			regs, err = client.ReadRegisters(start, count, regType)
		}
		t.core.Unlock()

		if err == nil {
			t.core.RecordSuccess()
			snap := make(decode.Snapshot, len(regs))
			for i, v := range regs {
				snap[start+uint16(i)] = v
			}
			return snap, nil
		}

		t.core.RecordFailure()
		lastErr = categorizeReadError(kind, start, err)

		if attempt < t.core.Config.Retries {
			t.core.SetLastReadRetried(true)
			select {
			case <-ctx.Done():
				return nil, &xerrors.TimeoutError{Op: "modbus rtu read cancelled", Cause: ctx.Err()}
			case <-time.After(t.core.BackoffDelay(attempt)):
			}
		}
	}
	return nil, lastErr
}

func (t *ModbusRTU) WriteRegisters(ctx context.Context, start uint16, values []uint16, forceSingle bool) error {
	t.core.Lock()
	defer t.core.Unlock()

	if !t.connected || t.client == nil {
		return &xerrors.ConnectionError{Op: "modbus rtu not connected"}
	}

	var err error
	if len(values) == 1 || forceSingle {
		for i, v := range values {
			if werr := t.client.WriteRegister(start+uint16(i), v); werr != nil {
				err = werr
				break
			}
		}
	} else {
		err = t.client.WriteRegisters(start, values)
	}

	if err != nil {
		t.core.RecordFailure()
		return categorizeWriteError(start, err)
	}
	t.core.RecordSuccess()
	return nil
}
