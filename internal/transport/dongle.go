package transport

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/protocol"
	"github.com/eg4lux/luxpower/internal/xerrors"
)

const dongleRecvBufferSize = 4096

// Dongle is the WiFi-dongle TCP transport: a raw socket speaking the
// LuxPower/EG4 proprietary framing (internal/protocol) rather than
// standard Modbus TCP. The dongle accepts exactly one concurrent
// connection; callers are responsible for not racing another client
// against the same host.
type Dongle struct {
	core *Core

	host           string
	port           int
	dongleSerial   string
	inverterSerial string

	conn      net.Conn
	connected bool
}

// NewDongle constructs a Dongle transport. dongleSerial and
// inverterSerial are the 10-character ASCII serials the protocol frames
// every request/response with.
func NewDongle(host string, port int, dongleSerial, inverterSerial string, cfg Config) *Dongle {
	return &Dongle{
		core:           NewCore(cfg),
		host:           host,
		port:           port,
		dongleSerial:   dongleSerial,
		inverterSerial: inverterSerial,
	}
}

func (t *Dongle) Capabilities() Capabilities {
	return Capabilities{SupportsHoldingWrite: true, SupportsSerialNumber: true, MaxRegistersPerRead: 40}
}

// Connect dials the dongle and discards any unsolicited data it sends
// in the first second after the socket opens — some firmware emits a
// stray packet immediately on connect that would otherwise desynchronize
// the first request/response exchange.
func (t *Dongle) Connect(ctx context.Context) error {
	t.core.Lock()
	defer t.core.Unlock()

	dialer := net.Dialer{Timeout: t.core.Config.Timeout}
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		t.connected = false
		return &xerrors.ConnectionError{Op: "dongle dial " + addr, Cause: err}
	}
	t.conn = conn
	t.connected = true

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	discard := make([]byte, 512)
	_, _ = conn.Read(discard)
	_ = conn.SetReadDeadline(time.Time{})

	return nil
}

func (t *Dongle) Disconnect(ctx context.Context) error {
	t.core.Lock()
	defer t.core.Unlock()
	t.connected = false
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *Dongle) IsConnected() bool {
	t.core.Lock()
	defer t.core.Unlock()
	return t.connected
}

func (t *Dongle) ConsecutiveErrors() int { return t.core.ConsecutiveErrors() }

// LastReadRetried reports whether the most recently completed ReadGroup
// call needed at least one retry.
func (t *Dongle) LastReadRetried() bool { return t.core.LastReadRetried() }

func (t *Dongle) Reconnect(ctx context.Context) error {
	if !t.core.NeedsReconnect() {
		return nil
	}
	_ = t.Disconnect(ctx)
	if err := t.Connect(ctx); err != nil {
		return err
	}
	t.core.ResetAfterReconnect()
	return nil
}

// ReadGroup issues one translated-data read request and parses the
// response, retrying per the shared backoff policy. The dongle caps a
// single request at 40 registers, so a larger count is read as
// consecutive requests of at most 40 registers merged into one snapshot.
func (t *Dongle) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	if count > 40 {
		snap := make(decode.Snapshot, count)
		for off := uint16(0); off < count; off += 40 {
			n := count - off
			if n > 40 {
				n = 40
			}
			part, err := t.ReadGroup(ctx, start+off, n, input)
			if err != nil {
				return nil, err
			}
			snap.Merge(part)
		}
		return snap, nil
	}

	modbusFunc := protocol.ModbusReadInput
	kind := "input"
	if !input {
		modbusFunc = protocol.ModbusReadHolding
		kind = "holding"
	}

	req := protocol.Request{
		DongleSerial:   t.dongleSerial,
		InverterSerial: t.inverterSerial,
		ModbusFunc:     modbusFunc,
		StartRegister:  start,
		RegisterCount:  count,
	}

	var lastErr error
	t.core.SetLastReadRetried(false)

	for attempt := 0; attempt <= t.core.Config.Retries; attempt++ {
		resp, err := t.sendReceive(ctx, req)
		if err == nil {
			t.core.RecordSuccess()
			snap := make(decode.Snapshot, len(resp.Registers))
			for i, v := range resp.Registers {
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
				return nil, &xerrors.TimeoutError{Op: "dongle read cancelled", Cause: ctx.Err()}
			case <-time.After(t.core.BackoffDelay(attempt)):
			}
		}
	}
	return nil, lastErr
}

func (t *Dongle) WriteRegisters(ctx context.Context, start uint16, values []uint16, forceSingle bool) error {
	modbusFunc := protocol.ModbusWriteMulti
	if len(values) == 1 || forceSingle {
		modbusFunc = protocol.ModbusWriteSingle
	}

	req := protocol.Request{
		DongleSerial:   t.dongleSerial,
		InverterSerial: t.inverterSerial,
		ModbusFunc:     modbusFunc,
		StartRegister:  start,
		Values:         values,
	}

	_, err := t.sendReceive(ctx, req)
	if err != nil {
		t.core.RecordFailure()
		return categorizeWriteError(start, err)
	}
	t.core.RecordSuccess()
	return nil
}

func (t *Dongle) sendReceive(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	t.core.Lock()
	defer t.core.Unlock()

	if !t.connected || t.conn == nil {
		return protocol.Response{}, &xerrors.ConnectionError{Op: "dongle not connected"}
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(t.core.Config.Timeout)
	}
	_ = t.conn.SetDeadline(deadline)

	packet := req.Marshal()
	if _, err := t.conn.Write(packet); err != nil {
		return protocol.Response{}, err
	}

	buf := make([]byte, dongleRecvBufferSize)
	resp, _, err := protocol.ReadFrom(t.conn, buf)
	return resp, err
}
