package data

import (
	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// BatteryData is one physical battery module's telemetry, decoded from
// its 30-register slot in the atomic rotation-probe block.
type BatteryData struct {
	Slot         int // which of the 4 rotating slots this reading came from
	Position     uint8
	Status       uint16
	Voltage      float64
	Current      float64
	SOC          uint8
	SOH          uint8
	MaxCellVoltage, MinCellVoltage float64
	MaxCellTemp, MinCellTemp       float64
	CycleCount                     uint16
	CapacityAh                     uint16
	FirmwareVersion                string
	Serial                          string
	FaultCode, WarningCode          uint16
}

// Power returns the instantaneous battery power in watts (V × I).
func (b BatteryData) Power() float64 { return b.Voltage * b.Current }

// IsCorrupt reports whether this module's own readings are physically
// impossible, for a module that is otherwise present (voltage > 0 or
// soc > 0): raw SoC/SoH above 100, pack voltage above 100 V, a cell
// voltage outside [1.0, 5.0] V when nonzero, or min exceeding max.
func (b BatteryData) IsCorrupt() bool {
	if !(b.Voltage > 0 || b.SOC > 0) {
		return false
	}
	if b.SOC > 100 || b.SOH > 100 {
		return true
	}
	if b.Voltage > 100 {
		return true
	}
	if b.MaxCellVoltage != 0 && (b.MaxCellVoltage < 1.0 || b.MaxCellVoltage > 5.0) {
		return true
	}
	if b.MinCellVoltage != 0 && (b.MinCellVoltage < 1.0 || b.MinCellVoltage > 5.0) {
		return true
	}
	if b.MinCellVoltage != 0 && b.MaxCellVoltage != 0 && b.MinCellVoltage > b.MaxCellVoltage {
		return true
	}
	return false
}

// IsCorrupt reports whether any present module in the bank is corrupt.
func (bank *BatteryBankData) IsCorrupt() bool {
	for _, m := range bank.Modules {
		if m.IsCorrupt() {
			return true
		}
	}
	return false
}

// BatteryBankData aggregates every module currently visible in a
// battery-probe sweep.
type BatteryBankData struct {
	Modules []BatteryData
}

// batteryVoltagePresenceThreshold is the minimum plausible pack voltage
// below which a probed slot is treated as "no battery installed" rather
// than a live module reporting near-zero — firmware leaves unused slots
// at 0V rather than omitting them from the block.
const batteryVoltagePresenceThreshold = 5.0

// DecodeBatterySlot decodes one 30-register slot of the atomic battery
// block, returning ok=false if the slot's voltage reads below the
// presence threshold (no module installed in that rotation position).
func DecodeBatterySlot(s decode.Snapshot, slotBase uint16, slot int) (BatteryData, bool) {
	raw16 := func(off uint16) (uint16, bool) {
		v, ok := s[slotBase+off]
		return v, ok
	}

	voltRaw, ok := raw16(registry.BatOffsetVoltage)
	if !ok {
		return BatteryData{}, false
	}
	voltage := float64(voltRaw) / 100.0
	if voltage < batteryVoltagePresenceThreshold {
		return BatteryData{}, false
	}

	statusRaw, _ := raw16(registry.BatOffsetStatus)
	currentRaw, _ := raw16(registry.BatOffsetCurrent)
	socsohRaw, _ := raw16(registry.BatOffsetSOCSOH)
	maxCellV, _ := raw16(registry.BatOffsetMaxCellV)
	minCellV, _ := raw16(registry.BatOffsetMinCellV)
	maxCellT, _ := raw16(registry.BatOffsetMaxCellTemp)
	minCellT, _ := raw16(registry.BatOffsetMinCellTemp)
	cycleCount, _ := raw16(registry.BatOffsetCycleCount)
	capacityAh, _ := raw16(registry.BatOffsetCapacityAh)
	firmwareRaw, _ := raw16(registry.BatOffsetFirmware)
	positionRaw, _ := raw16(registry.BatOffsetPosition)
	faultCode, _ := raw16(registry.BatOffsetFaultCode)
	warningCode, _ := raw16(registry.BatOffsetWarningCode)

	soc, soh := decode.SOCSOH(socsohRaw)
	serial, _ := decode.ReadBatterySerial(s, slotBase+registry.BatOffsetSerialStart, registry.BatOffsetSerialRegs)

	return BatteryData{
		Slot:            slot,
		Position:        uint8(positionRaw >> 8),
		Status:          statusRaw,
		Voltage:         voltage,
		Current:         float64(int16(currentRaw)) / 10.0,
		SOC:             soc,
		SOH:             soh,
		MaxCellVoltage:  float64(maxCellV) / 1000.0,
		MinCellVoltage:  float64(minCellV) / 1000.0,
		MaxCellTemp:     float64(int16(maxCellT)) / 10.0,
		MinCellTemp:     float64(int16(minCellT)) / 10.0,
		CycleCount:      cycleCount,
		CapacityAh:      capacityAh,
		FirmwareVersion: decode.ReadBatteryFirmware(firmwareRaw),
		Serial:          serial,
		FaultCode:       faultCode,
		WarningCode:     warningCode,
	}, true
}

// DecodeBatteryBank decodes every slot in the atomic battery block into
// a bank, skipping slots with no module present.
func DecodeBatteryBank(s decode.Snapshot) *BatteryBankData {
	bank := &BatteryBankData{}
	for slot := uint16(0); slot < registry.BatteryBlockSlots; slot++ {
		base := registry.BatteryBlockBase + slot*registry.BatteryBlockSlotSize
		if bd, ok := DecodeBatterySlot(s, base, int(slot)); ok {
			bank.Modules = append(bank.Modules, bd)
		}
	}
	return bank
}
