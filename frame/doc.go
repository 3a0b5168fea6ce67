// Package frame implements the XBee API frame format used by ZigBee radio modules
// attached over a serial link.
//
// A frame on the wire is:
//
//	[0x7E][Length MSB][Length LSB][Frame data (Length bytes)][Checksum]
//
// The frame data starts with the API frame type, and for frames that expect a
// response, a 1-byte frame ID. The checksum is 0xFF minus the 8-bit sum of the
// frame data bytes.
//
// # API Modes
//
// In API mode 1 bytes are sent as-is. In API mode 2 (the default), every byte after
// the start delimiter that equals 0x7E, 0x7D, 0x11 or 0x13 is sent as 0x7D followed
// by the byte XOR 0x20. This keeps the start delimiter unique on the wire.
//
// # Outgoing Frames
//
// Outgoing frames are modelled by the [Command] interface. Each variant
// ([ATCommand], [RemoteATCommand], [TransmitRequest]) builds its frame data from
// its fields and a frame ID, and [Encode] wraps the frame data into a wire frame.
//
// # Incoming Frames
//
// [StreamAssembler] consumes an arbitrary byte stream, resynchronizes on the start
// delimiter, verifies checksums and hands each valid frame to a [Registry], which
// produces a typed [ParsedFrame].
package frame
