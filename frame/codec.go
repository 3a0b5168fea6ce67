package frame

import (
	"encoding/binary"
	"fmt"
)

// RawPacket is the unescaped, checksum-verified frame data of one frame.
// Data[0] is the frame type.
type RawPacket struct {
	Data []byte
}

// Type returns the frame type of the packet, or 0 for an empty packet.
func (p *RawPacket) Type() FrameType {
	if len(p.Data) == 0 {
		return 0
	}

	return FrameType(p.Data[0])
}

// Checksum computes the XBee checksum over frame data: 0xFF minus the 8-bit sum.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return 0xFF - sum
}

// VerifyChecksum reports whether cs is the valid checksum of data, that is,
// whether the 8-bit sum of data and cs equals 0xFF.
func VerifyChecksum(data []byte, cs byte) bool {
	sum := cs
	for _, b := range data {
		sum += b
	}

	return sum == 0xFF
}

// Escape returns data with every reserved byte replaced by the escape byte followed
// by the byte XOR 0x20.
func Escape(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8)
	for _, b := range data {
		if isReserved(b) {
			out = append(out, EscapeByte, b^EscapeXOR)
			continue
		}
		out = append(out, b)
	}

	return out
}

// Unescape reverses Escape.
// It returns ErrTrailingEscape if data ends with a lone escape byte.
func Unescape(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != EscapeByte {
			out = append(out, b)
			continue
		}

		i++
		if i >= len(data) {
			return nil, ErrTrailingEscape
		}
		out = append(out, data[i]^EscapeXOR)
	}

	return out, nil
}

// EncodePayload wraps frame data into a wire frame:
//
//	[StartByte][Length MSB][Length LSB][data...][Checksum]
//
// In API mode 2 every byte after the start delimiter is escaped as needed.
func EncodePayload(data []byte, mode APIMode) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(data) > MaxFrameDataSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidLength, len(data), MaxFrameDataSize)
	}

	body := make([]byte, 2, 2+len(data)+1)
	binary.BigEndian.PutUint16(body, uint16(len(data))) //nolint:gosec // bounded above
	body = append(body, data...)
	body = append(body, Checksum(data))

	if mode.Escaped() {
		body = Escape(body)
	}

	wire := make([]byte, 0, 1+len(body))
	wire = append(wire, StartByte)
	wire = append(wire, body...)

	return wire, nil
}

// Encode builds the wire frame of cmd using frameID.
func Encode(cmd Command, frameID byte, mode APIMode) ([]byte, error) {
	return EncodePayload(cmd.Payload(frameID), mode)
}

// Decode decodes exactly one complete wire frame and verifies its checksum.
//
// Unlike [StreamAssembler], Decode does not resynchronize: the input must start with
// the start delimiter and contain the whole frame. Trailing bytes are ignored.
func Decode(wire []byte, mode APIMode) (*RawPacket, error) {
	if len(wire) == 0 || wire[0] != StartByte {
		return nil, ErrInvalidStart
	}

	body := wire[1:]
	if mode.Escaped() {
		var err error
		body, err = Unescape(body)
		if err != nil {
			return nil, err
		}
	}

	if len(body) < 2 {
		return nil, ErrTruncated
	}

	length := int(binary.BigEndian.Uint16(body[:2]))
	if length == 0 {
		return nil, ErrInvalidLength
	}

	if len(body) < 2+length+1 {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrTruncated, len(body), 2+length+1)
	}

	data := body[2 : 2+length]
	cs := body[2+length]
	if !VerifyChecksum(data, cs) {
		return nil, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrChecksumMismatch, cs, Checksum(data))
	}

	out := make([]byte, length)
	copy(out, data)

	return &RawPacket{Data: out}, nil
}
