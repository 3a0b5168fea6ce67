package frame

// ParsedFrame is a decoded incoming API frame.
//
// The concrete type is one of *ModemStatusFrame, *NodeIdentificationFrame,
// *ATCommandResponse, *RemoteCommandResponse, *TransmitStatus, *ReceivePacket,
// *IOSampleRx or *UnsupportedFrame. Parsers registered through [Registry.Register]
// may add their own types.
type ParsedFrame interface {
	FrameType() FrameType
}

// Correlated is implemented by response frames that carry the frame ID of the
// command they answer.
type Correlated interface {
	ParsedFrame
	FrameID() byte
}

// ModemStatusFrame reports a change of the local radio state.
type ModemStatusFrame struct {
	Status ModemStatus
}

func (f *ModemStatusFrame) FrameType() FrameType { return TypeModemStatus }

// NodeIdentificationFrame is sent when a remote radio announces itself, for example
// after its commissioning button is pressed.
type NodeIdentificationFrame struct {
	Sender64       Address64
	Sender16       Address16
	ReceiveOptions ReceiveOptions
	Payload        []byte
	// Node is the decoded Payload.
	Node *NodeIdentification
}

func (f *NodeIdentificationFrame) FrameType() FrameType { return TypeNodeIdentification }

// NodeIdentification is the identification record of a remote radio. It is carried by
// node identification frames and by the responses of the ND command.
type NodeIdentification struct {
	Remote16       Address16
	Remote64       Address64
	ID             string
	RemoteParent16 Address16
	DeviceType     DeviceType
	SourceEvent    SourceEvent
	// Extra holds the trailing fields (profile ID, manufacturer ID and so on).
	Extra []byte
}

// ParseNodeIdentification decodes a node identification record:
//
//	remote16(2) remote64(8) id(NUL-terminated) parent16(2) deviceType(1) sourceEvent(1) extra...
func ParseNodeIdentification(payload []byte) (*NodeIdentification, error) {
	r := newReader(payload)
	ni := &NodeIdentification{
		Remote16: r.addr16(),
		Remote64: r.addr64(),
		ID:       r.cString(),
	}
	ni.RemoteParent16 = r.addr16()
	ni.DeviceType = DeviceType(r.byte())
	ni.SourceEvent = SourceEvent(r.byte())
	ni.Extra = r.rest()

	if r.err != nil {
		return nil, r.err
	}

	return ni, nil
}

// ATCommandResponse answers an AT command sent to the local radio.
type ATCommandResponse struct {
	ID      byte
	Command string
	Status  CommandStatus
	Data    []byte
}

func (f *ATCommandResponse) FrameType() FrameType { return TypeATCommandResponse }
func (f *ATCommandResponse) FrameID() byte        { return f.ID }

// RemoteCommandResponse answers a remote AT command.
type RemoteCommandResponse struct {
	ID       byte
	Remote16 Address16
	Remote64 Address64
	Command  string
	Status   CommandStatus
	Data     []byte
}

func (f *RemoteCommandResponse) FrameType() FrameType { return TypeRemoteCommandResponse }
func (f *RemoteCommandResponse) FrameID() byte        { return f.ID }

// TransmitStatus reports the outcome of a transmit request.
type TransmitStatus struct {
	ID              byte
	Remote16        Address16
	RetryCount      byte
	DeliveryStatus  DeliveryStatus
	DiscoveryStatus DiscoveryStatus
}

func (f *TransmitStatus) FrameType() FrameType { return TypeTransmitStatus }
func (f *TransmitStatus) FrameID() byte        { return f.ID }

// ReceivePacket carries RF data received from a remote radio.
type ReceivePacket struct {
	Remote64       Address64
	Remote16       Address16
	ReceiveOptions ReceiveOptions
	Data           []byte
}

func (f *ReceivePacket) FrameType() FrameType { return TypeReceivePacket }

// IOSampleRx carries an I/O sample taken by a remote radio. Sample is the raw sample
// payload; see package iosample for decoding.
type IOSampleRx struct {
	Remote64       Address64
	Remote16       Address16
	ReceiveOptions ReceiveOptions
	Sample         []byte
}

func (f *IOSampleRx) FrameType() FrameType { return TypeIODataSampleRx }

// UnsupportedFrame is a valid frame whose type has no registered parser.
// Data is the frame data without the frame type byte.
type UnsupportedFrame struct {
	Type FrameType
	Data []byte
}

func (f *UnsupportedFrame) FrameType() FrameType { return f.Type }
