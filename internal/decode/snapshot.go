// Package decode implements the Canonical Reader: primitive read/scale/
// clamp/sum helpers over a register-address to raw-value mapping
// (a Snapshot). It is grounded on the reference codebase's generic
// FromBytes/Scale helpers (pkg/utils/conversion.go), reworked to operate
// directly on decoded register words rather than raw byte slices, since
// a Modbus snapshot here is naturally address-to-uint16, not a byte
// stream.
package decode

import (
	"strconv"
	"strings"

	"github.com/eg4lux/luxpower/internal/registry"
)

// Snapshot is a mapping from absolute register address to unsigned
// 16-bit register value. A missing key means "not read" — unavailable,
// never treated as zero.
type Snapshot map[uint16]uint16

// Merge copies other's entries into s, overwriting on collision. Used by
// the register-group orchestrator to fold per-group reads into one
// snapshot.
func (s Snapshot) Merge(other Snapshot) {
	for addr, v := range other {
		s[addr] = v
	}
}

// ReadRaw returns the raw integer for field, with correct word order and
// two's-complement reinterpretation when signed. ok is false if any
// required address is missing from the snapshot.
func ReadRaw(s Snapshot, field registry.Field) (value int64, ok bool) {
	if field.BitWidth == 32 {
		return readRaw32(s, field.Address, field.LittleEndianWords, field.Signed)
	}
	return readRaw16(s, field.Address, field.Signed)
}

func readRaw16(s Snapshot, addr uint16, signed bool) (int64, bool) {
	v, ok := s[addr]
	if !ok {
		return 0, false
	}
	if signed {
		return int64(int16(v)), true
	}
	return int64(v), true
}

// readRaw32 combines the two registers at addr and addr+1. When
// littleEndianWords is true the low word is at addr and the high word at
// addr+1; otherwise the high word is at addr.
func readRaw32(s Snapshot, addr uint16, littleEndianWords, signed bool) (int64, bool) {
	w0, ok0 := s[addr]
	w1, ok1 := s[addr+1]
	if !ok0 || !ok1 {
		return 0, false
	}
	var raw uint32
	if littleEndianWords {
		raw = uint32(w0) | (uint32(w1) << 16)
	} else {
		raw = (uint32(w0) << 16) | uint32(w1)
	}
	if signed {
		return int64(int32(raw)), true
	}
	return int64(raw), true
}

// ReadScaled returns raw × field's declared scale factor as a float64.
// ok is false on any missing address.
func ReadScaled(s Snapshot, field registry.Field) (value float64, ok bool) {
	raw, ok := ReadRaw(s, field)
	if !ok {
		return 0, false
	}
	return float64(raw) * field.ScaleFactor.Factor(), true
}

// ClampPercentage clamps a SoC/SoH style value to [0, 100], returning the
// clamped value. Callers that need the pre-clamp raw value for canary
// checks should read it separately before clamping.
func ClampPercentage(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SumOptional sums the present values in vs, treating a missing (ok=false)
// entry as zero. If every entry is missing, ok is false on the result.
func SumOptional(vs ...struct {
	V  float64
	Ok bool
}) (sum float64, ok bool) {
	anyPresent := false
	for _, e := range vs {
		if e.Ok {
			anyPresent = true
			sum += e.V
		}
	}
	return sum, anyPresent
}

// Optional is a small helper constructor so callers don't need to spell
// out the anonymous struct literal at every call site of SumOptional.
func Optional(v float64, ok bool) struct {
	V  float64
	Ok bool
} {
	return struct {
		V  float64
		Ok bool
	}{V: v, Ok: ok}
}

// ParallelConfig is the decoded contents of the packed parallel-status
// register.
type ParallelConfig struct {
	MasterSlave uint8 // bits 0-1
	Phase       uint8 // bits 2-3
	UnitID      uint8 // bits 8-15
}

// UnpackParallelConfig extracts master/slave, phase, and unit-id from a
// packed parallel-configuration register value.
func UnpackParallelConfig(raw uint16) ParallelConfig {
	return ParallelConfig{
		MasterSlave: uint8(raw & 0x3),
		Phase:       uint8((raw >> 2) & 0x3),
		UnitID:      uint8((raw >> 8) & 0xFF),
	}
}

// SOCSOH unpacks a register carrying SoC in the low byte and SoH in the
// high byte. SoH defaults to 100 when its byte is zero, matching firmware
// that doesn't populate SoH on older packs.
func SOCSOH(raw uint16) (soc, soh uint8) {
	soc = uint8(raw & 0xFF)
	soh = uint8((raw >> 8) & 0xFF)
	if soh == 0 {
		soh = 100
	}
	return soc, soh
}

// ReadBatteryFirmware decodes a packed major.minor firmware register
// (high byte = major, low byte = minor).
func ReadBatteryFirmware(raw uint16) string {
	major := (raw >> 8) & 0xFF
	minor := raw & 0xFF
	return strconv.Itoa(int(major)) + "." + strconv.Itoa(int(minor))
}

// ReadBatterySerial extracts an ASCII serial spread across consecutive
// registers, two characters per register, low byte first, trimmed of
// null padding.
func ReadBatterySerial(s Snapshot, startAddr, regCount uint16) (string, bool) {
	var b strings.Builder
	for i := uint16(0); i < regCount; i++ {
		v, ok := s[startAddr+i]
		if !ok {
			return "", false
		}
		lo := byte(v & 0xFF)
		hi := byte((v >> 8) & 0xFF)
		if lo != 0 {
			b.WriteByte(lo)
		}
		if hi != 0 {
			b.WriteByte(hi)
		}
	}
	return b.String(), true
}
