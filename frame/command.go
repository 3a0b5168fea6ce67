package frame

import "github.com/arloliu/go-xbee/internal/util"

// Command is an outgoing API frame.
//
// Payload builds the frame data (frame type first) for the given frame ID. It must
// not modify the receiver, so a command can be encoded again with another frame ID.
type Command interface {
	// Type returns the frame type of the command.
	Type() FrameType
	// ResponseType returns the frame type the module replies with.
	ResponseType() FrameType
	// Payload returns the frame data for frameID.
	Payload(frameID byte) []byte
}

// DefaultRemoteOptions applies changes on the remote radio immediately.
const DefaultRemoteOptions byte = 0x02

// ATCommand reads or writes a register of the local radio.
// A nil Parameter queries the register.
type ATCommand struct {
	Command   string
	Parameter []byte
}

var _ Command = (*ATCommand)(nil)

// NewATCommand validates the mnemonic and returns an AT command frame.
func NewATCommand(cmd string, param []byte) (*ATCommand, error) {
	if len(cmd) != 2 {
		return nil, ErrInvalidATCommand
	}

	return &ATCommand{Command: cmd, Parameter: param}, nil
}

// Type returns TypeATCommand.
func (c *ATCommand) Type() FrameType { return TypeATCommand }

// ResponseType returns TypeATCommandResponse.
func (c *ATCommand) ResponseType() FrameType { return TypeATCommandResponse }

// Payload returns [0x08, frameID, cmd0, cmd1, param...].
func (c *ATCommand) Payload(frameID byte) []byte {
	p := make([]byte, 0, 4+len(c.Parameter))
	p = append(p, byte(TypeATCommand), frameID)
	p = appendMnemonic(p, c.Command)
	p = append(p, c.Parameter...)

	return p
}

// RemoteATCommand reads or writes a register of a remote radio.
type RemoteATCommand struct {
	Dest64    Address64
	Dest16    Address16
	Options   byte
	Command   string
	Parameter []byte
}

var _ Command = (*RemoteATCommand)(nil)

// NewRemoteATCommand returns a remote AT command frame with DefaultRemoteOptions.
func NewRemoteATCommand(dest64 Address64, dest16 Address16, cmd string, param []byte) (*RemoteATCommand, error) {
	if len(cmd) != 2 {
		return nil, ErrInvalidATCommand
	}

	return &RemoteATCommand{
		Dest64:    dest64,
		Dest16:    dest16,
		Options:   DefaultRemoteOptions,
		Command:   cmd,
		Parameter: param,
	}, nil
}

// Type returns TypeRemoteATCommand.
func (c *RemoteATCommand) Type() FrameType { return TypeRemoteATCommand }

// ResponseType returns TypeRemoteCommandResponse.
func (c *RemoteATCommand) ResponseType() FrameType { return TypeRemoteCommandResponse }

// Payload returns [0x17, frameID, dest64(8), dest16(2), options, cmd0, cmd1, param...].
func (c *RemoteATCommand) Payload(frameID byte) []byte {
	p := make([]byte, 0, 15+len(c.Parameter))
	p = append(p, byte(TypeRemoteATCommand), frameID)
	p = append(p, c.Dest64[:]...)
	p = append(p, c.Dest16[:]...)
	p = append(p, c.Options)
	p = appendMnemonic(p, c.Command)
	p = append(p, c.Parameter...)

	return p
}

// TransmitRequest sends RF data to a remote radio.
type TransmitRequest struct {
	Dest64          Address64
	Dest16          Address16
	BroadcastRadius byte // 0 uses the maximum number of hops
	Options         byte
	Data            []byte
}

var _ Command = (*TransmitRequest)(nil)

// Type returns TypeTransmitRequest.
func (c *TransmitRequest) Type() FrameType { return TypeTransmitRequest }

// ResponseType returns TypeTransmitStatus.
func (c *TransmitRequest) ResponseType() FrameType { return TypeTransmitStatus }

// Payload returns [0x10, frameID, dest64(8), dest16(2), radius, options, data...].
func (c *TransmitRequest) Payload(frameID byte) []byte {
	p := make([]byte, 0, 14+len(c.Data))
	p = append(p, byte(TypeTransmitRequest), frameID)
	p = append(p, c.Dest64[:]...)
	p = append(p, c.Dest16[:]...)
	p = append(p, c.BroadcastRadius, c.Options)
	p = append(p, c.Data...)

	return p
}

// SplitTransmit splits data into transmit requests of at most MaxPayloadSize bytes each.
// Each request gets its own frame ID when encoded. Empty data yields a single request
// with no RF data.
func SplitTransmit(dest64 Address64, dest16 Address16, data []byte) []*TransmitRequest {
	if len(data) == 0 {
		return []*TransmitRequest{{Dest64: dest64, Dest16: dest16}}
	}

	reqs := make([]*TransmitRequest, 0, (len(data)+MaxPayloadSize-1)/MaxPayloadSize)
	for len(data) > 0 {
		n := min(len(data), MaxPayloadSize)
		reqs = append(reqs, &TransmitRequest{Dest64: dest64, Dest16: dest16, Data: util.CloneSlice(data[:n], 0)})
		data = data[n:]
	}

	return reqs
}

func appendMnemonic(p []byte, cmd string) []byte {
	var c0, c1 byte
	if len(cmd) > 0 {
		c0 = cmd[0]
	}
	if len(cmd) > 1 {
		c1 = cmd[1]
	}

	return append(p, c0, c1)
}
