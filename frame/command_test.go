package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDest64 = Address64{0x00, 0x13, 0xA2, 0x00, 0x40, 0x8B, 0x94, 0x37}

func TestATCommand_Payload(t *testing.T) {
	cmd, err := NewATCommand("NJ", nil)
	require.NoError(t, err)
	assert.Equal(t, TypeATCommand, cmd.Type())
	assert.Equal(t, TypeATCommandResponse, cmd.ResponseType())
	assert.Equal(t, []byte{0x08, 0x52, 'N', 'J'}, cmd.Payload(0x52))

	cmd, err = NewATCommand("D0", []byte{0x03})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01, 'D', '0', 0x03}, cmd.Payload(0x01))

	// payload building does not depend on previous calls
	assert.Equal(t, cmd.Payload(0x07)[2:], cmd.Payload(0x08)[2:])
}

func TestNewATCommand_Invalid(t *testing.T) {
	_, err := NewATCommand("N", nil)
	require.ErrorIs(t, err, ErrInvalidATCommand)

	_, err = NewRemoteATCommand(testDest64, UnknownAddress16, "NDX", nil)
	require.ErrorIs(t, err, ErrInvalidATCommand)
}

func TestRemoteATCommand_Payload(t *testing.T) {
	cmd, err := NewRemoteATCommand(testDest64, Address16{0x12, 0x34}, "D1", []byte{0x05})
	require.NoError(t, err)
	assert.Equal(t, DefaultRemoteOptions, cmd.Options)
	assert.Equal(t, TypeRemoteCommandResponse, cmd.ResponseType())

	want := []byte{
		0x17, 0x44,
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x8B, 0x94, 0x37,
		0x12, 0x34,
		0x02,
		'D', '1',
		0x05,
	}
	assert.Equal(t, want, cmd.Payload(0x44))
}

func TestTransmitRequest_Payload(t *testing.T) {
	req := &TransmitRequest{Dest64: testDest64, Dest16: UnknownAddress16, Data: []byte("hi")}
	assert.Equal(t, TypeTransmitRequest, req.Type())
	assert.Equal(t, TypeTransmitStatus, req.ResponseType())

	want := []byte{
		0x10, 0x01,
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x8B, 0x94, 0x37,
		0xFF, 0xFE,
		0x00, 0x00,
		'h', 'i',
	}
	assert.Equal(t, want, req.Payload(0x01))
}

func TestSplitTransmit(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 2*MaxPayloadSize+52)
	reqs := SplitTransmit(BroadcastAddress64, UnknownAddress16, data)
	require.Len(t, reqs, 3)

	assert.Len(t, reqs[0].Data, MaxPayloadSize)
	assert.Len(t, reqs[1].Data, MaxPayloadSize)
	assert.Len(t, reqs[2].Data, 52)

	var joined []byte
	for _, r := range reqs {
		assert.Equal(t, BroadcastAddress64, r.Dest64)
		assert.Equal(t, UnknownAddress16, r.Dest16)
		joined = append(joined, r.Data...)
	}
	assert.Equal(t, data, joined)

	// chunks do not alias the input
	data[0] = 0x00
	assert.Equal(t, byte(0xAB), reqs[0].Data[0])
}

func TestSplitTransmit_Exact(t *testing.T) {
	reqs := SplitTransmit(testDest64, UnknownAddress16, make([]byte, MaxPayloadSize))
	assert.Len(t, reqs, 1)

	reqs = SplitTransmit(testDest64, UnknownAddress16, nil)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Data)
}

func TestEncode(t *testing.T) {
	cmd, err := NewATCommand("NJ", nil)
	require.NoError(t, err)

	wire, err := Encode(cmd, 0x52, APIMode2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 0x00, 0x04, 0x08, 0x52, 0x4E, 0x4A, 0x0D}, wire)
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "0013a200408b9437", testDest64.String())
	assert.Equal(t, uint64(0x0013A200408B9437), testDest64.Uint64())
	assert.Equal(t, testDest64, NewAddress64(0x0013A200408B9437))
	assert.True(t, BroadcastAddress64.IsBroadcast())
	assert.False(t, testDest64.IsBroadcast())

	a, err := ParseAddress64("00:13:a2:00:40:8b:94:37")
	require.NoError(t, err)
	assert.Equal(t, testDest64, a)

	_, err = ParseAddress64("0013a2")
	require.Error(t, err)

	_, err = ParseAddress64("zz13a200408b9437")
	require.Error(t, err)

	a16, err := ParseAddress16("fffe")
	require.NoError(t, err)
	assert.Equal(t, UnknownAddress16, a16)
	assert.Equal(t, uint16(0xFFFE), a16.Uint16())
	assert.Equal(t, Address16{0x12, 0x34}, NewAddress16(0x1234))
}

func TestATCommandVocabulary(t *testing.T) {
	m, ok := LookupATCommand("FirmwareVersion")
	require.True(t, ok)
	assert.Equal(t, "VR", m)

	m, ok = LookupATCommand("nodediscover")
	require.True(t, ok)
	assert.Equal(t, "ND", m)

	m, ok = LookupATCommand("ic")
	require.True(t, ok)
	assert.Equal(t, "IC", m)

	_, ok = LookupATCommand("NoSuchCommand")
	assert.False(t, ok)

	name, ok := ATCommandName("IR")
	require.True(t, ok)
	assert.Equal(t, "IOSampleRate", name)

	_, ok = ATCommandName("QQ")
	assert.False(t, ok)
}
