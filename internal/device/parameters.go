package device

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
	"github.com/eg4lux/luxpower/internal/xerrors"
)

// Parameters returns the cached flat parameter map, refreshing it
// first if stale or force is set. Keys are the catalog's canonical
// parameter names where known, and "reg_<address>" for any holding
// register the catalog doesn't name.
func (inv *Inverter) Parameters(ctx context.Context, force bool) (map[string]float64, error) {
	if err := inv.parameters.Refresh(force, func() (map[string]float64, bool, error) {
		return inv.fetchParameters(ctx)
	}); err != nil {
		return nil, err
	}
	v, _, ok := inv.parameters.Get()
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (inv *Inverter) fetchParameters(ctx context.Context) (map[string]float64, bool, error) {
	if !inv.transport.Capabilities().SupportsHoldingWrite {
		return nil, false, &xerrors.UnsupportedOperationError{Op: "parameter read", Transport: fmt.Sprintf("%T", inv.transport)}
	}

	snap, err := inv.orchestrator.ReadAllHolding(ctx, registry.HoldingRegisterGroups)
	if err != nil {
		return nil, false, fmt.Errorf("read parameter registers: %w", err)
	}

	out := make(map[string]float64, len(snap))
	named := make(map[uint16]bool, len(registry.HoldingFields))
	for name, wf := range registry.HoldingFields {
		if v, ok := decode.ReadScaled(snap, wf.Field); ok {
			out[name] = v
			named[wf.Address] = true
			if wf.BitWidth == 32 {
				named[wf.Address+1] = true
			}
		}
	}
	for addr, raw := range snap {
		if named[addr] {
			continue
		}
		out["reg_"+strconv.Itoa(int(addr))] = float64(raw)
	}
	return out, true, nil
}

// SetParameter validates and writes a single named holding-register
// parameter, then invalidates the parameter cache so the next read
// observes the new value instead of a stale one from the 1-hour TTL
// window.
func (inv *Inverter) SetParameter(ctx context.Context, name string, value float64) error {
	wf, ok := registry.HoldingFields[name]
	if !ok {
		return &xerrors.ValidationError{Field: name, Value: value, Rule: "unknown parameter name"}
	}
	if wf.MinValue != nil && value < *wf.MinValue {
		return &xerrors.ValidationError{Field: name, Value: value, Rule: fmt.Sprintf("must be >= %v", *wf.MinValue)}
	}
	if wf.MaxValue != nil && value > *wf.MaxValue {
		return &xerrors.ValidationError{Field: name, Value: value, Rule: fmt.Sprintf("must be <= %v", *wf.MaxValue)}
	}

	raw := int64(value / wf.ScaleFactor.Factor())
	if wf.BitWidth == 32 {
		lo := uint16(raw & 0xFFFF)
		hi := uint16((raw >> 16) & 0xFFFF)
		values := []uint16{lo, hi}
		if !wf.LittleEndianWords {
			values = []uint16{hi, lo}
		}
		if err := inv.transport.WriteRegisters(ctx, wf.Address, values, false); err != nil {
			return fmt.Errorf("write parameter %s: %w", name, err)
		}
	} else {
		if err := inv.transport.WriteRegisters(ctx, wf.Address, []uint16{uint16(raw)}, true); err != nil {
			return fmt.Errorf("write parameter %s: %w", name, err)
		}
	}

	inv.invalidateParameters()
	return nil
}

func (inv *Inverter) invalidateParameters() {
	inv.parameters.mu.Lock()
	defer inv.parameters.mu.Unlock()
	inv.parameters.valid = false
}

// SetBatterySOCLimits writes the charge-resume (on) and discharge-cutoff
// (off) SoC thresholds. on must be in [10, 90]; off must be in [0,
// 100], mirroring the bounds the device itself enforces on registers
// 105 and 125.
func (inv *Inverter) SetBatterySOCLimits(ctx context.Context, on, off float64) error {
	if on < 10 || on > 90 {
		return &xerrors.ValidationError{Field: "battery_soc_on", Value: on, Rule: "must be in [10, 90]"}
	}
	if off < 0 || off > 100 {
		return &xerrors.ValidationError{Field: "battery_soc_off", Value: off, Rule: "must be in [0, 100]"}
	}
	if err := inv.transport.WriteRegisters(ctx, registry.BatterySOCOnRegister, []uint16{uint16(on)}, true); err != nil {
		return fmt.Errorf("write battery soc on limit: %w", err)
	}
	if err := inv.transport.WriteRegisters(ctx, registry.BatterySOCOffRegister, []uint16{uint16(off)}, true); err != nil {
		return fmt.Errorf("write battery soc off limit: %w", err)
	}
	inv.invalidateParameters()
	return nil
}

// PackTime packs an hour/minute pair into the register format the
// device uses for schedule registers: the hour in the low byte, the
// minute in the high byte.
func PackTime(hour, minute uint8) uint16 {
	return uint16(hour) | uint16(minute)<<8
}

// UnpackTime reverses PackTime.
func UnpackTime(raw uint16) (hour, minute uint8) {
	return uint8(raw & 0xFF), uint8(raw >> 8)
}

func validateScheduleTime(field string, hour, minute uint8) error {
	if hour > 23 {
		return &xerrors.ValidationError{Field: field + "_hour", Value: hour, Rule: "must be in [0, 23]"}
	}
	if minute > 59 {
		return &xerrors.ValidationError{Field: field + "_minute", Value: minute, Rule: "must be in [0, 59]"}
	}
	return nil
}

// SetACChargeSchedule writes one AC-charge schedule period's start and
// end time, each packed into its register via PackTime. The device
// only accepts these two registers via function code 0x06 (write
// single), one at a time, never as a batched function-0x10 write;
// start is always written before end.
func (inv *Inverter) SetACChargeSchedule(ctx context.Context, period int, startHour, startMinute, endHour, endMinute uint8) error {
	if period < 0 || period >= registry.ACChargeSchedulePeriods {
		return &xerrors.ValidationError{Field: "period", Value: period, Rule: fmt.Sprintf("must be in [0, %d)", registry.ACChargeSchedulePeriods)}
	}
	if err := validateScheduleTime("start", startHour, startMinute); err != nil {
		return err
	}
	if err := validateScheduleTime("end", endHour, endMinute); err != nil {
		return err
	}
	startAddr, endAddr := registry.ACChargeScheduleAddr(period)
	if err := inv.transport.WriteRegisters(ctx, startAddr, []uint16{PackTime(startHour, startMinute)}, true); err != nil {
		return fmt.Errorf("write schedule period %d start register: %w", period, err)
	}
	if err := inv.transport.WriteRegisters(ctx, endAddr, []uint16{PackTime(endHour, endMinute)}, true); err != nil {
		return fmt.Errorf("write schedule period %d end register: %w", period, err)
	}
	inv.invalidateParameters()
	return nil
}

// GetACChargeSchedule reads one AC-charge schedule period's start and
// end registers and unpacks each into its hour/minute pair, the
// inverse of SetACChargeSchedule.
func (inv *Inverter) GetACChargeSchedule(ctx context.Context, period int) (startHour, startMinute, endHour, endMinute uint8, err error) {
	if period < 0 || period >= registry.ACChargeSchedulePeriods {
		return 0, 0, 0, 0, &xerrors.ValidationError{Field: "period", Value: period, Rule: fmt.Sprintf("must be in [0, %d)", registry.ACChargeSchedulePeriods)}
	}
	startAddr, endAddr := registry.ACChargeScheduleAddr(period)
	snap, err := inv.transport.ReadGroup(ctx, startAddr, registry.ACChargeScheduleRegsPerPeriod, false)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("read schedule period %d registers: %w", period, err)
	}
	startHour, startMinute = UnpackTime(snap[startAddr])
	endHour, endMinute = UnpackTime(snap[endAddr])
	return startHour, startMinute, endHour, endMinute, nil
}

// isScheduleRegister reports whether addr falls inside the AC-charge
// schedule block, which the device only accepts one register at a
// time via function code 0x06.
func isScheduleRegister(addr uint16) bool {
	end := registry.ACChargeScheduleBaseAddr + uint16(registry.ACChargeSchedulePeriods)*registry.ACChargeScheduleRegsPerPeriod
	return addr >= registry.ACChargeScheduleBaseAddr && addr < end
}

// SetParameters validates and writes several named holding-register
// parameters in one call. Consecutive register addresses are grouped
// into a single function-0x10 write; schedule registers are rejected
// here and must go through SetACChargeSchedule instead, since the
// device refuses them via function 0x10 regardless of batch size.
func (inv *Inverter) SetParameters(ctx context.Context, params map[string]float64) error {
	raw := make(map[uint16]uint16, len(params))
	for name, value := range params {
		wf, ok := registry.HoldingFields[name]
		if !ok {
			return &xerrors.ValidationError{Field: name, Value: value, Rule: "unknown parameter name"}
		}
		if wf.BitWidth == 32 {
			return &xerrors.ValidationError{Field: name, Value: value, Rule: "32-bit parameters must be written individually via SetParameter"}
		}
		if isScheduleRegister(wf.Address) {
			return &xerrors.ValidationError{Field: name, Value: value, Rule: "schedule registers must be written via SetACChargeSchedule"}
		}
		if wf.MinValue != nil && value < *wf.MinValue {
			return &xerrors.ValidationError{Field: name, Value: value, Rule: fmt.Sprintf("must be >= %v", *wf.MinValue)}
		}
		if wf.MaxValue != nil && value > *wf.MaxValue {
			return &xerrors.ValidationError{Field: name, Value: value, Rule: fmt.Sprintf("must be <= %v", *wf.MaxValue)}
		}
		raw[wf.Address] = uint16(value / wf.ScaleFactor.Factor())
	}

	for _, run := range batchConsecutive(raw) {
		start, end := run[0], run[1]
		values := make([]uint16, 0, end-start+1)
		for addr := start; addr <= end; addr++ {
			values = append(values, raw[addr])
		}
		if err := inv.transport.WriteRegisters(ctx, start, values, false); err != nil {
			return fmt.Errorf("write parameter batch [%d-%d]: %w", start, end, err)
		}
	}

	inv.invalidateParameters()
	return nil
}

// batchConsecutive groups a sorted set of (address, value) writes into
// runs of consecutive addresses, so the caller can issue one
// function-0x10 write per run instead of one function-0x06 write per
// register. Schedule registers must never be passed through this path;
// callers route them through SetACChargeSchedule instead.
func batchConsecutive(values map[uint16]uint16) [][2]uint16 {
	if len(values) == 0 {
		return nil
	}
	addrs := make([]uint16, 0, len(values))
	for a := range values {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	var runs [][2]uint16
	runStart := addrs[0]
	runEnd := addrs[0]
	for _, a := range addrs[1:] {
		if a == runEnd+1 {
			runEnd = a
			continue
		}
		runs = append(runs, [2]uint16{runStart, runEnd})
		runStart, runEnd = a, a
	}
	runs = append(runs, [2]uint16{runStart, runEnd})
	return runs
}
