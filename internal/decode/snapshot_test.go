package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eg4lux/luxpower/internal/registry"
)

func TestReadRaw16Unsigned(t *testing.T) {
	snap := Snapshot{10: 0xFFFE}
	field := registry.Field{Address: 10, BitWidth: 16, Signed: false}

	v, ok := ReadRaw(snap, field)
	assert.True(t, ok)
	assert.Equal(t, int64(0xFFFE), v)
}

func TestReadRaw16Signed(t *testing.T) {
	snap := Snapshot{10: 0xFFFE} // -2 as int16
	field := registry.Field{Address: 10, BitWidth: 16, Signed: true}

	v, ok := ReadRaw(snap, field)
	assert.True(t, ok)
	assert.Equal(t, int64(-2), v)
}

func TestReadRaw16MissingAddress(t *testing.T) {
	snap := Snapshot{}
	field := registry.Field{Address: 10, BitWidth: 16}

	_, ok := ReadRaw(snap, field)
	assert.False(t, ok)
}

func TestReadRaw32BigEndianWords(t *testing.T) {
	// high word at Address, low word at Address+1
	snap := Snapshot{100: 0x0001, 101: 0x0002}
	field := registry.Field{Address: 100, BitWidth: 32, LittleEndianWords: false}

	v, ok := ReadRaw(snap, field)
	assert.True(t, ok)
	assert.Equal(t, int64(0x00010002), v)
}

func TestReadRaw32LittleEndianWords(t *testing.T) {
	// low word at Address, high word at Address+1
	snap := Snapshot{100: 0x0002, 101: 0x0001}
	field := registry.Field{Address: 100, BitWidth: 32, LittleEndianWords: true}

	v, ok := ReadRaw(snap, field)
	assert.True(t, ok)
	assert.Equal(t, int64(0x00010002), v)
}

func TestReadRaw32Signed(t *testing.T) {
	// 0xFFFFFFFE as int32 == -2, little-endian words
	snap := Snapshot{100: 0xFFFE, 101: 0xFFFF}
	field := registry.Field{Address: 100, BitWidth: 32, LittleEndianWords: true, Signed: true}

	v, ok := ReadRaw(snap, field)
	assert.True(t, ok)
	assert.Equal(t, int64(-2), v)
}

func TestReadRaw32MissingHighWord(t *testing.T) {
	snap := Snapshot{100: 0x0002}
	field := registry.Field{Address: 100, BitWidth: 32}

	_, ok := ReadRaw(snap, field)
	assert.False(t, ok)
}

func TestReadScaledAppliesFactor(t *testing.T) {
	snap := Snapshot{5: 1234}
	field := registry.Field{Address: 5, BitWidth: 16, ScaleFactor: registry.ScaleDiv10}

	v, ok := ReadScaled(snap, field)
	assert.True(t, ok)
	assert.InDelta(t, 123.4, v, 0.0001)
}

func TestClampPercentage(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercentage(-5))
	assert.Equal(t, 100.0, ClampPercentage(150))
	assert.Equal(t, 42.0, ClampPercentage(42))
}

func TestSumOptionalAllPresent(t *testing.T) {
	sum, ok := SumOptional(Optional(1, true), Optional(2, true), Optional(3, true))
	assert.True(t, ok)
	assert.Equal(t, 6.0, sum)
}

func TestSumOptionalTreatsMissingAsZero(t *testing.T) {
	sum, ok := SumOptional(Optional(1, true), Optional(0, false))
	assert.True(t, ok)
	assert.Equal(t, 1.0, sum)
}

func TestSumOptionalAllMissing(t *testing.T) {
	_, ok := SumOptional(Optional(0, false), Optional(0, false))
	assert.False(t, ok)
}

func TestMergeOverwritesOnCollision(t *testing.T) {
	s := Snapshot{1: 10, 2: 20}
	s.Merge(Snapshot{2: 99, 3: 30})

	assert.Equal(t, uint16(10), s[1])
	assert.Equal(t, uint16(99), s[2])
	assert.Equal(t, uint16(30), s[3])
}

func TestUnpackParallelConfig(t *testing.T) {
	// MasterSlave=1 (bits0-1), Phase=2 (bits2-3), UnitID=5 (bits8-15)
	raw := uint16(0x0501 | (2 << 2))
	cfg := UnpackParallelConfig(raw)

	assert.Equal(t, uint8(1), cfg.MasterSlave)
	assert.Equal(t, uint8(2), cfg.Phase)
	assert.Equal(t, uint8(5), cfg.UnitID)
}

func TestSOCSOHDefaultsSOHWhenZero(t *testing.T) {
	soc, soh := SOCSOH(0x0042) // SoC=0x42, SoH byte=0
	assert.Equal(t, uint8(0x42), soc)
	assert.Equal(t, uint8(100), soh)
}

func TestSOCSOHPreservesNonZeroSOH(t *testing.T) {
	soc, soh := SOCSOH(0x5A32)
	assert.Equal(t, uint8(0x32), soc)
	assert.Equal(t, uint8(0x5A), soh)
}

func TestReadBatteryFirmware(t *testing.T) {
	assert.Equal(t, "3.12", ReadBatteryFirmware(0x030C))
}

func TestReadBatterySerialTrimsNullPadding(t *testing.T) {
	// "AB" then null padding
	snap := Snapshot{0: uint16('A') | uint16('B')<<8, 1: 0x0000}
	serial, ok := ReadBatterySerial(snap, 0, 2)

	assert.True(t, ok)
	assert.Equal(t, "AB", serial)
}

func TestReadBatterySerialMissingRegister(t *testing.T) {
	snap := Snapshot{0: uint16('A')}
	_, ok := ReadBatterySerial(snap, 0, 2)
	assert.False(t, ok)
}
