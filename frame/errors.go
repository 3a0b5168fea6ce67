package frame

import "errors"

var (
	// ErrChecksumMismatch indicates a frame whose checksum does not match its data.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")

	// ErrInvalidStart indicates that a frame does not begin with the start delimiter.
	ErrInvalidStart = errors.New("frame: missing start delimiter")

	// ErrInvalidLength indicates a zero or out-of-range length field.
	ErrInvalidLength = errors.New("frame: invalid frame length")

	// ErrTruncated indicates that the input ends before the declared frame length.
	ErrTruncated = errors.New("frame: truncated frame")

	// ErrTrailingEscape indicates an escape byte with nothing following it.
	ErrTrailingEscape = errors.New("frame: trailing escape byte")

	// ErrShortFrame indicates frame data shorter than the fixed layout of its frame type.
	ErrShortFrame = errors.New("frame: frame data too short for frame type")

	// ErrEmptyFrame indicates frame data without a frame type byte.
	ErrEmptyFrame = errors.New("frame: empty frame data")

	// ErrInvalidATCommand indicates an AT command mnemonic that is not exactly two characters.
	ErrInvalidATCommand = errors.New("frame: AT command must be two characters")
)
