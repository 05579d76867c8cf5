// Package protocol implements the proprietary WiFi-dongle wire format:
// an 18-byte TCP header wrapping a Modbus-RTU-flavored payload,
// little-endian throughout, with a CRC-16/Modbus trailer over the data
// frame. This is not standard Modbus TCP — the dongle is a single-client
// relay that speaks LuxPower/EG4's own framing.
//
// Grounded on the reference implementation's dongle transport module,
// restructured into the Scan(io.Reader)/Marshal() []byte idiom the
// inverter-reading examples use for their own Modbus ADU framing.
package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var packetPrefix = [2]byte{0xA1, 0x1A}

const protocolVersion uint16 = 1

// TCP function codes.
const (
	TCPFuncHeartbeat  byte = 0xC1
	TCPFuncTranslated byte = 0xC2
	TCPFuncReadParam  byte = 0xC3
	TCPFuncWriteParam byte = 0xC4
)

// Modbus function codes carried inside a translated-data packet.
const (
	ModbusReadHolding  byte = 0x03
	ModbusReadInput    byte = 0x04
	ModbusWriteSingle  byte = 0x06
	ModbusWriteMulti   byte = 0x10
)

// CRC16Modbus computes the CRC-16/Modbus checksum (poly 0xA001, init
// 0xFFFF) over data.
func CRC16Modbus(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// Request describes an outbound dongle request: a Modbus operation
// addressed to inverterSerial, framed for dongleSerial.
type Request struct {
	DongleSerial   string
	InverterSerial string
	ModbusFunc     byte
	StartRegister  uint16
	RegisterCount  uint16   // read operations
	Values         []uint16 // write operations
}

func asciiSerial(s string) [10]byte {
	var b [10]byte
	copy(b[:], s)
	return b
}

// Marshal builds the complete wire packet for req.
func (req Request) Marshal() []byte {
	dongleBytes := asciiSerial(req.DongleSerial)
	inverterBytes := asciiSerial(req.InverterSerial)

	dataFrame := new(bytes.Buffer)
	dataFrame.WriteByte(0x00) // action: request
	dataFrame.WriteByte(req.ModbusFunc)
	dataFrame.Write(inverterBytes[:])

	switch req.ModbusFunc {
	case ModbusWriteSingle:
		var value uint16
		if len(req.Values) > 0 {
			value = req.Values[0]
		}
		binary.Write(dataFrame, binary.LittleEndian, req.StartRegister)
		binary.Write(dataFrame, binary.LittleEndian, value)
	case ModbusWriteMulti:
		binary.Write(dataFrame, binary.LittleEndian, req.StartRegister)
		binary.Write(dataFrame, binary.LittleEndian, uint16(len(req.Values)))
		dataFrame.WriteByte(byte(len(req.Values) * 2))
		for _, v := range req.Values {
			binary.Write(dataFrame, binary.LittleEndian, v)
		}
	default:
		binary.Write(dataFrame, binary.LittleEndian, req.StartRegister)
		binary.Write(dataFrame, binary.LittleEndian, req.RegisterCount)
	}

	frame := dataFrame.Bytes()
	crc := CRC16Modbus(frame)

	dataLength := len(frame) + 2
	frameLength := 14 + dataLength

	packet := new(bytes.Buffer)
	packet.Write(packetPrefix[:])
	binary.Write(packet, binary.LittleEndian, protocolVersion)
	binary.Write(packet, binary.LittleEndian, uint16(frameLength))
	packet.WriteByte(0x01)
	packet.WriteByte(TCPFuncTranslated)
	packet.Write(dongleBytes[:])
	binary.Write(packet, binary.LittleEndian, uint16(dataLength))
	packet.Write(frame)
	binary.Write(packet, binary.LittleEndian, crc)

	return packet.Bytes()
}

// Response is a parsed dongle response: the register values returned
// by a translated-data read, or an empty slice for a write
// acknowledgement.
type Response struct {
	ModbusFunc byte
	Registers  []uint16
}

// ErrShortResponse, ErrBadPrefix and ErrTruncated describe malformed
// dongle response framing.
var (
	ErrShortResponse = fmt.Errorf("dongle response too short")
	ErrBadPrefix     = fmt.Errorf("dongle response has invalid prefix")
	ErrTruncated     = fmt.Errorf("dongle response truncated")
)

// ModbusException reports an exception bit set on the echoed Modbus
// function code.
type ModbusException struct {
	Function  byte
	Exception byte
}

func (e *ModbusException) Error() string {
	return fmt.Sprintf("modbus exception: function=0x%02x code=%d", e.Function, e.Exception)
}

// Scan parses a raw dongle response buffer into r.
func (r *Response) Scan(raw []byte) error {
	if len(raw) < 20 {
		return ErrShortResponse
	}
	if raw[0] != packetPrefix[0] || raw[1] != packetPrefix[1] {
		return ErrBadPrefix
	}

	dataLength := binary.LittleEndian.Uint16(raw[18:20])
	dataStart := 20
	dataEnd := dataStart + int(dataLength) - 2 // strip trailing CRC
	if dataEnd > len(raw) || dataEnd < dataStart {
		return ErrTruncated
	}
	frame := raw[dataStart:dataEnd]
	if len(frame) < 15 {
		return ErrTruncated
	}

	modbusFunc := frame[1]
	if modbusFunc&0x80 != 0 {
		var exCode byte
		if len(frame) > 14 {
			exCode = frame[14]
		}
		return &ModbusException{Function: modbusFunc, Exception: exCode}
	}

	byteCount := int(frame[14])
	regionEnd := 15 + byteCount
	if regionEnd > len(frame) {
		regionEnd = len(frame)
	}
	regionStart := 15

	registers := make([]uint16, 0, byteCount/2)
	for i := regionStart; i+1 < regionEnd; i += 2 {
		registers = append(registers, binary.LittleEndian.Uint16(frame[i:i+2]))
	}

	r.ModbusFunc = modbusFunc
	r.Registers = registers
	return nil
}

// ReadFrom reads one complete dongle response from rd into a
// fixed-size buffer sized for the largest group this client ever
// requests, then parses it. The dongle sends one response per request
// as a single write, so a single Read call below the buffer size is
// sufficient in practice.
func ReadFrom(rd io.Reader, buf []byte) (Response, int, error) {
	n, err := rd.Read(buf)
	if err != nil {
		return Response{}, n, err
	}
	var resp Response
	if n == 0 {
		return resp, n, ErrShortResponse
	}
	if err := resp.Scan(buf[:n]); err != nil {
		return resp, n, err
	}
	return resp, n, nil
}
