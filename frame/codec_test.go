package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	// AT command NJ with frame ID 0x52, from the module reference manual.
	data := []byte{0x08, 0x52, 0x4E, 0x4A}
	assert.Equal(t, byte(0x0D), Checksum(data))
	assert.True(t, VerifyChecksum(data, 0x0D))
	assert.False(t, VerifyChecksum(data, 0x0E))

	// sum wraps modulo 256
	assert.Equal(t, byte(0xFF-0x2C), Checksum([]byte{0xFF, 0x2D}))
}

func TestEscape(t *testing.T) {
	in := []byte{0x7E, 0x7D, 0x11, 0x13, 0x01}
	out := Escape(in)
	assert.Equal(t, []byte{0x7D, 0x5E, 0x7D, 0x5D, 0x7D, 0x31, 0x7D, 0x33, 0x01}, out)

	back, err := Unescape(out)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestEscape_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x7E},
		{0x7D, 0x7D, 0x7D},
		bytes.Repeat([]byte{0x11, 0x13, 0x42}, 50),
	}

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	payloads = append(payloads, all)

	for _, p := range payloads {
		got, err := Unescape(Escape(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestUnescape_TrailingEscape(t *testing.T) {
	_, err := Unescape([]byte{0x01, 0x7D})
	require.ErrorIs(t, err, ErrTrailingEscape)
}

func TestEncodePayload_APIMode1(t *testing.T) {
	wire, err := EncodePayload([]byte{0x08, 0x52, 0x4E, 0x4A}, APIMode1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 0x00, 0x04, 0x08, 0x52, 0x4E, 0x4A, 0x0D}, wire)
}

func TestEncodePayload_APIMode2EscapesStartByte(t *testing.T) {
	// 0x7E inside the frame data is sent as 0x7D 0x5E.
	data := []byte{0x10, 0x01, 0x7E}
	wire, err := EncodePayload(data, APIMode2)
	require.NoError(t, err)

	cs := Checksum(data)
	assert.Equal(t, []byte{0x7E, 0x00, 0x03, 0x10, 0x01, 0x7D, 0x5E, cs}, wire)

	pkt, err := Decode(wire, APIMode2)
	require.NoError(t, err)
	assert.Equal(t, data, pkt.Data)
}

func TestEncodePayload_APIMode2EscapesLength(t *testing.T) {
	// 17 bytes of frame data: the length LSB is 0x11 (XON) and must be escaped.
	data := bytes.Repeat([]byte{0x01}, 17)
	wire, err := EncodePayload(data, APIMode2)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x7E, 0x00, 0x7D, 0x31}, wire[:4])
	assert.Equal(t, byte(0xEE), wire[len(wire)-1])
	assert.Len(t, wire, 4+17+1)
}

func TestEncodePayload_Invalid(t *testing.T) {
	_, err := EncodePayload(nil, APIMode2)
	require.ErrorIs(t, err, ErrEmptyFrame)

	_, err = EncodePayload(make([]byte, MaxFrameDataSize+1), APIMode1)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecode_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{0x8A, 0x06},
		{0x90, 0x7E, 0x7D, 0x11, 0x13, 0xFF, 0x00},
		bytes.Repeat([]byte{0xA5}, 300),
	}

	for _, mode := range []APIMode{APIMode1, APIMode2} {
		for _, p := range payloads {
			wire, err := EncodePayload(p, mode)
			require.NoError(t, err)

			pkt, err := Decode(wire, mode)
			require.NoError(t, err, "mode=%s", mode)
			assert.Equal(t, p, pkt.Data)
			assert.Equal(t, FrameType(p[0]), pkt.Type())
		}
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	data := []byte{0x90, 0x20, 0x21, 0x22, 0x23, 0x24}
	wire, err := EncodePayload(data, APIMode1)
	require.NoError(t, err)

	// flip each frame data byte in turn
	for i := 3; i < 3+len(data); i++ {
		corrupt := append([]byte(nil), wire...)
		corrupt[i] ^= 0x01

		_, err := Decode(corrupt, APIMode1)
		require.ErrorIs(t, err, ErrChecksumMismatch, "byte %d", i)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(nil, APIMode1)
	require.ErrorIs(t, err, ErrInvalidStart)

	_, err = Decode([]byte{0x00, 0x00, 0x01, 0x8A, 0x75}, APIMode1)
	require.ErrorIs(t, err, ErrInvalidStart)

	_, err = Decode([]byte{0x7E, 0x00}, APIMode1)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decode([]byte{0x7E, 0x00, 0x05, 0x8A, 0x00}, APIMode1)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decode([]byte{0x7E, 0x00, 0x00, 0xFF}, APIMode1)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = Decode([]byte{0x7E, 0x00, 0x7D}, APIMode2)
	require.ErrorIs(t, err, ErrTrailingEscape)
}
