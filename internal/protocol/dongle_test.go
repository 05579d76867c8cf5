package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC16ModbusKnownVector(t *testing.T) {
	// CRC-16/Modbus over "123456789" is a commonly cited test vector: 0x4B37.
	got := CRC16Modbus([]byte("123456789"))
	assert.Equal(t, uint16(0x4B37), got)
}

func TestCRC16ModbusChangesOnBitFlip(t *testing.T) {
	data := []byte{0x01, 0x04, 0x00, 0x00, 0x00, 0x02}
	base := CRC16Modbus(data)

	flipped := append([]byte(nil), data...)
	flipped[0] ^= 0x01
	assert.NotEqual(t, base, CRC16Modbus(flipped))
}

func TestRequestMarshalReadHasExpectedHeader(t *testing.T) {
	req := Request{
		DongleSerial:   "DONGLE0001",
		InverterSerial: "INVERTER01",
		ModbusFunc:     ModbusReadInput,
		StartRegister:  0,
		RegisterCount:  40,
	}
	packet := req.Marshal()

	require.True(t, len(packet) > 20)
	assert.Equal(t, byte(0xA1), packet[0])
	assert.Equal(t, byte(0x1A), packet[1])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(packet[2:4]))
	assert.Equal(t, byte(0x01), packet[6])
	assert.Equal(t, TCPFuncTranslated, packet[7])
	assert.Equal(t, "DONGLE0001", string(packet[8:18]))
}

func TestRequestMarshalWriteSingleEncodesValue(t *testing.T) {
	req := Request{
		DongleSerial:   "DONGLE0001",
		InverterSerial: "INVERTER01",
		ModbusFunc:     ModbusWriteSingle,
		StartRegister:  21,
		Values:         []uint16{1},
	}
	packet := req.Marshal()

	// CRC trailer over the data frame must validate: last two bytes are
	// the CRC of everything between the data-length field and the CRC.
	dataLength := binary.LittleEndian.Uint16(packet[18:20])
	frame := packet[20 : 20+int(dataLength)-2]
	crc := binary.LittleEndian.Uint16(packet[20+int(dataLength)-2 : 20+int(dataLength)])
	assert.Equal(t, CRC16Modbus(frame), crc)
}

// buildResponsePacket assembles a synthetic dongle response buffer in the
// shape Response.Scan expects, for round-trip verification.
func buildResponsePacket(modbusFunc byte, registers []uint16) []byte {
	frame := make([]byte, 0, 32)
	frame = append(frame, 0x00, modbusFunc)
	frame = append(frame, make([]byte, 10)...) // echoed inverter serial, unused by Scan
	frame = append(frame, 0x00, 0x00)           // echoed start register, unused by Scan
	frame = append(frame, byte(len(registers)*2))
	for _, v := range registers {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		frame = append(frame, b...)
	}

	packet := make([]byte, 0, 32+len(frame))
	packet = append(packet, packetPrefix[0], packetPrefix[1])
	packet = append(packet, 0x01, 0x00) // version
	packet = append(packet, 0x00, 0x00) // frame length, unused by Scan
	packet = append(packet, 0x01, TCPFuncTranslated)
	packet = append(packet, make([]byte, 10)...) // dongle serial, unused by Scan
	dataLength := make([]byte, 2)
	binary.LittleEndian.PutUint16(dataLength, uint16(len(frame)+2))
	packet = append(packet, dataLength...)
	packet = append(packet, frame...)
	crc := make([]byte, 2)
	binary.LittleEndian.PutUint16(crc, CRC16Modbus(frame))
	packet = append(packet, crc...)
	return packet
}

func TestResponseScanRoundTrip(t *testing.T) {
	raw := buildResponsePacket(ModbusReadInput, []uint16{100, 200, 300})

	var resp Response
	err := resp.Scan(raw)

	require.NoError(t, err)
	assert.Equal(t, ModbusReadInput, resp.ModbusFunc)
	assert.Equal(t, []uint16{100, 200, 300}, resp.Registers)
}

func TestResponseScanRejectsShortBuffer(t *testing.T) {
	var resp Response
	err := resp.Scan(make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortResponse)
}

func TestResponseScanRejectsBadPrefix(t *testing.T) {
	raw := buildResponsePacket(ModbusReadInput, []uint16{1})
	raw[0] = 0x00

	var resp Response
	err := resp.Scan(raw)
	assert.ErrorIs(t, err, ErrBadPrefix)
}

func TestResponseScanDetectsModbusException(t *testing.T) {
	frame := []byte{0x00, ModbusReadInput | 0x80}
	frame = append(frame, make([]byte, 10)...)
	frame = append(frame, 0x00, 0x00)
	frame = append(frame, 0x03) // exception code at frame[14]

	packet := make([]byte, 0, 32)
	packet = append(packet, packetPrefix[0], packetPrefix[1])
	packet = append(packet, make([]byte, 16)...)
	dataLength := make([]byte, 2)
	binary.LittleEndian.PutUint16(dataLength, uint16(len(frame)+2))
	packet = append(packet[:18], dataLength...)
	packet = append(packet, frame...)
	packet = append(packet, 0x00, 0x00)

	var resp Response
	err := resp.Scan(packet)

	var modbusErr *ModbusException
	require.ErrorAs(t, err, &modbusErr)
	assert.Equal(t, byte(0x03), modbusErr.Exception)
}

func TestResponseScanRejectsTruncatedFrame(t *testing.T) {
	raw := buildResponsePacket(ModbusReadInput, []uint16{1, 2})
	// Claim more data than actually present.
	binary.LittleEndian.PutUint16(raw[18:20], 0xFFFF)

	var resp Response
	err := resp.Scan(raw)
	assert.ErrorIs(t, err, ErrTruncated)
}
