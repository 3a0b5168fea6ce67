package frame

import "fmt"

// Reserved bytes of the XBee API framing.
const (
	// StartByte is the frame start delimiter.
	StartByte byte = 0x7E
	// EscapeByte prefixes an escaped byte in API mode 2.
	EscapeByte byte = 0x7D
	// XON is the software flow control resume byte.
	XON byte = 0x11
	// XOFF is the software flow control pause byte.
	XOFF byte = 0x13

	// EscapeXOR is XOR'ed with an escaped byte.
	EscapeXOR byte = 0x20
)

const (
	// MaxPayloadSize is the maximum number of RF data bytes carried by one transmit request.
	// Larger payloads are split by [SplitTransmit].
	MaxPayloadSize = 74

	// MaxFrameDataSize is the largest frame data length that fits the 16-bit length field.
	MaxFrameDataSize = 0xFFFF
)

// NoResponseFrameID is the frame ID that tells the module not to send a response frame.
const NoResponseFrameID byte = 0x00

// APIMode selects whether reserved bytes are escaped on the wire.
type APIMode uint8

const (
	// APIMode1 sends frames without escaping.
	APIMode1 APIMode = 1
	// APIMode2 escapes reserved bytes. This is the default.
	APIMode2 APIMode = 2
)

// String returns the name of the API mode.
func (m APIMode) String() string {
	switch m {
	case APIMode1:
		return "api1"
	case APIMode2:
		return "api2"
	default:
		return fmt.Sprintf("APIMode(%d)", uint8(m))
	}
}

// Escaped reports whether the mode escapes reserved bytes.
func (m APIMode) Escaped() bool {
	return m == APIMode2
}

// FrameType is the API identifier, the first byte of the frame data.
type FrameType byte

// API frame types.
const (
	TypeATCommand             FrameType = 0x08
	TypeATCommandQueue        FrameType = 0x09
	TypeTransmitRequest       FrameType = 0x10
	TypeExplicitAddressing    FrameType = 0x11
	TypeRemoteATCommand       FrameType = 0x17
	TypeCreateSourceRoute     FrameType = 0x21
	TypeATCommandResponse     FrameType = 0x88
	TypeModemStatus           FrameType = 0x8A
	TypeTransmitStatus        FrameType = 0x8B
	TypeReceivePacket         FrameType = 0x90
	TypeExplicitRxIndicator   FrameType = 0x91
	TypeIODataSampleRx        FrameType = 0x92
	TypeSensorReadIndicator   FrameType = 0x94
	TypeNodeIdentification    FrameType = 0x95
	TypeRemoteCommandResponse FrameType = 0x97
	TypeFirmwareUpdateStatus  FrameType = 0xA0
	TypeRouteRecordIndicator  FrameType = 0xA1
	TypeManyToOneRouteRequest FrameType = 0xA3
)

var frameTypeNames = map[FrameType]string{
	TypeATCommand:             "ATCommand",
	TypeATCommandQueue:        "ATCommandQueue",
	TypeTransmitRequest:       "TransmitRequest",
	TypeExplicitAddressing:    "ExplicitAddressing",
	TypeRemoteATCommand:       "RemoteATCommand",
	TypeCreateSourceRoute:     "CreateSourceRoute",
	TypeATCommandResponse:     "ATCommandResponse",
	TypeModemStatus:           "ModemStatus",
	TypeTransmitStatus:        "TransmitStatus",
	TypeReceivePacket:         "ReceivePacket",
	TypeExplicitRxIndicator:   "ExplicitRxIndicator",
	TypeIODataSampleRx:        "IODataSampleRx",
	TypeSensorReadIndicator:   "SensorReadIndicator",
	TypeNodeIdentification:    "NodeIdentification",
	TypeRemoteCommandResponse: "RemoteCommandResponse",
	TypeFirmwareUpdateStatus:  "FirmwareUpdateStatus",
	TypeRouteRecordIndicator:  "RouteRecordIndicator",
	TypeManyToOneRouteRequest: "ManyToOneRouteRequest",
}

// String returns the frame type name, or its hex value if unknown.
func (t FrameType) String() string {
	if name, ok := frameTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("FrameType(0x%02X)", byte(t))
}

// Known reports whether t is a frame type defined by the API.
func (t FrameType) Known() bool {
	_, ok := frameTypeNames[t]
	return ok
}

// isReserved reports whether b must be escaped in API mode 2.
func isReserved(b byte) bool {
	return b == StartByte || b == EscapeByte || b == XON || b == XOFF
}
