package registry

// Per-slot offsets within the 30-register battery telemetry block
// starting at BatteryBlockBase. Slot N occupies
// [BatteryBlockBase+N*30, BatteryBlockBase+N*30+30).
const (
	BatOffsetStatus      uint16 = 0
	BatOffsetVoltage     uint16 = 1  // raw / 100 = V
	BatOffsetCurrent     uint16 = 2  // signed, raw / 10 = A
	BatOffsetSOCSOH      uint16 = 8  // low byte SoC, high byte SoH
	BatOffsetMaxCellV    uint16 = 9  // mV
	BatOffsetMinCellV    uint16 = 10 // mV
	BatOffsetMaxCellTemp uint16 = 11 // signed, raw/10 = C
	BatOffsetMinCellTemp uint16 = 12 // signed, raw/10 = C
	BatOffsetCycleCount  uint16 = 13
	BatOffsetCapacityAh  uint16 = 14
	BatOffsetFirmware    uint16 = 16 // packed major.minor, high/low byte
	BatOffsetSerialStart uint16 = 17 // 8 registers, 16 ASCII chars low-byte-first
	BatOffsetSerialRegs  uint16 = 8
	BatOffsetPosition    uint16 = 24 // high byte: rotation page key
	BatOffsetFaultCode   uint16 = 25
	BatOffsetWarningCode uint16 = 26
)
