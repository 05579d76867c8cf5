package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBytesRoundTripsThroughToBytes(t *testing.T) {
	assert.Equal(t, uint16(0x1234), FromBytes[uint16](ToBytes(uint16(0x1234))))
	assert.Equal(t, int32(-1000), FromBytes[int32](ToBytes(int32(-1000))))
	assert.Equal(t, uint64(0x0102030405060708), FromBytes[uint64](ToBytes(uint64(0x0102030405060708))))
}

func TestFromBytesNegativeInt16(t *testing.T) {
	data := ToBytes(int16(-50))
	assert.Equal(t, int16(-50), FromBytes[int16](data))
}

func TestScaleAppliesMultiplier(t *testing.T) {
	assert.Equal(t, 10.5, Scale(int16(105), 0.1))
	assert.Equal(t, 1.0, Scale(uint32(1000), 0.001))
}

func TestFromBytesWithEndiannessHighWordFirst(t *testing.T) {
	// reg1=0x0001 (high), reg2=0x0002 (low) -> 0x00010002, big-endian words.
	data := []byte{0x00, 0x01, 0x00, 0x02}
	got := FromBytesWithEndianness[uint32](data, false, false)
	assert.Equal(t, uint32(0x00010002), got)
}

func TestFromBytesWithEndiannessLowWordFirst(t *testing.T) {
	// reg1=0x0001 (low), reg2=0x0002 (high) -> 0x00020001, little-endian words.
	data := []byte{0x00, 0x01, 0x00, 0x02}
	got := FromBytesWithEndianness[uint32](data, false, true)
	assert.Equal(t, uint32(0x00020001), got)
}

func TestFromBytesDCBAIsFullyLittleEndian(t *testing.T) {
	data := []byte{0x08, 0x07, 0x06, 0x05}
	got := FromBytesDCBA[uint32](data)
	assert.Equal(t, uint32(0x05060708), got)
}

func TestFromBytesBADCSwapsBytesKeepsWordOrder(t *testing.T) {
	data := []byte{0x08, 0x07, 0x06, 0x05}
	got := FromBytesBADC[uint32](data)
	assert.Equal(t, uint32(0x07080506), got)
}

func TestFromBytesCDABKeepsBytesSwapsWordOrder(t *testing.T) {
	data := []byte{0x00, 0x01, 0x00, 0x02}
	got := FromBytesCDAB[uint32](data)
	assert.Equal(t, uint32(0x00020001), got)
}

func TestFromBytesReturnsZeroOnShortInput(t *testing.T) {
	assert.Equal(t, uint32(0), FromBytes[uint32]([]byte{0x01, 0x02}))
}
