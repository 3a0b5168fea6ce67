package frame

import "fmt"

type assemblerState uint8

const (
	stateAwaitingStart assemblerState = iota
	stateLengthMSB
	stateLengthLSB
	statePayload
	stateChecksum
)

// AssemblerStats counts what a StreamAssembler has seen since creation or the last Reset.
type AssemblerStats struct {
	Frames         uint64 // valid frames emitted
	ChecksumErrors uint64 // frames dropped because of a checksum mismatch
	LengthErrors   uint64 // frames dropped because of a zero length field
	ParseErrors    uint64 // valid frames the registry failed to parse
	Resyncs        uint64 // partial frames abandoned on a new start delimiter
	DiscardedBytes uint64 // bytes skipped while waiting for a start delimiter
}

// AssemblerOption configures a StreamAssembler.
type AssemblerOption func(*StreamAssembler)

// WithRegistry sets the registry used to parse assembled frames.
// The default is DefaultRegistry().
func WithRegistry(r *Registry) AssemblerOption {
	return func(a *StreamAssembler) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithErrorHandler sets a function called for every dropped frame, with an error
// wrapping ErrChecksumMismatch, ErrInvalidLength or ErrShortFrame.
func WithErrorHandler(fn func(err error)) AssemblerOption {
	return func(a *StreamAssembler) {
		a.onError = fn
	}
}

// StreamAssembler turns a byte stream into parsed frames.
//
// It consumes one byte at a time, so the result does not depend on how the stream
// is split into chunks. A start delimiter that was not produced by unescaping
// always starts a new frame, abandoning any partial one. Frames with a bad checksum
// are dropped and the assembler waits for the next start delimiter.
//
// StreamAssembler is NOT goroutine-safe; it is meant to be owned by a single read loop.
type StreamAssembler struct {
	mode     APIMode
	registry *Registry
	onError  func(err error)

	state      assemblerState
	escapeNext bool
	length     int
	sum        byte
	buf        []byte

	stats AssemblerStats
}

// NewStreamAssembler creates an assembler for the given API mode.
func NewStreamAssembler(mode APIMode, opts ...AssemblerOption) *StreamAssembler {
	a := &StreamAssembler{
		mode:     mode,
		registry: DefaultRegistry(),
		buf:      make([]byte, 0, 128),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Feed consumes chunk and returns the frames completed by it, in stream order.
func (a *StreamAssembler) Feed(chunk []byte) []ParsedFrame {
	var frames []ParsedFrame
	a.FeedFunc(chunk, func(f ParsedFrame) {
		frames = append(frames, f)
	})

	return frames
}

// FeedFunc consumes chunk and calls fn for each completed frame, in stream order.
func (a *StreamAssembler) FeedFunc(chunk []byte, fn func(ParsedFrame)) {
	for _, b := range chunk {
		unescaped := false
		if a.mode.Escaped() {
			if a.escapeNext {
				b ^= EscapeXOR
				unescaped = true
				a.escapeNext = false
			} else if b == EscapeByte {
				a.escapeNext = true
				continue
			}
		}

		if b == StartByte && !unescaped {
			if a.state != stateAwaitingStart {
				a.stats.Resyncs++
			}
			a.state = stateLengthMSB

			continue
		}

		a.step(b, fn)
	}
}

func (a *StreamAssembler) step(b byte, fn func(ParsedFrame)) {
	switch a.state {
	case stateAwaitingStart:
		a.stats.DiscardedBytes++

	case stateLengthMSB:
		a.length = int(b) << 8
		a.state = stateLengthLSB

	case stateLengthLSB:
		a.length |= int(b)
		if a.length == 0 {
			a.stats.LengthErrors++
			a.fail(ErrInvalidLength)

			return
		}
		a.buf = a.buf[:0]
		a.sum = 0
		a.state = statePayload

	case statePayload:
		a.buf = append(a.buf, b)
		a.sum += b
		if len(a.buf) == a.length {
			a.state = stateChecksum
		}

	case stateChecksum:
		a.state = stateAwaitingStart
		if a.sum+b != 0xFF {
			a.stats.ChecksumErrors++
			a.fail(fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrChecksumMismatch, b, 0xFF-a.sum))

			return
		}
		a.emit(fn)
	}
}

func (a *StreamAssembler) emit(fn func(ParsedFrame)) {
	f, err := a.registry.Parse(a.buf)
	if err != nil {
		a.stats.ParseErrors++
		a.fail(fmt.Errorf("parse %s frame: %w", FrameType(a.buf[0]), err))

		return
	}

	a.stats.Frames++
	fn(f)
}

func (a *StreamAssembler) fail(err error) {
	a.state = stateAwaitingStart
	if a.onError != nil {
		a.onError(err)
	}
}

// Reset drops any partial frame and clears the statistics.
func (a *StreamAssembler) Reset() {
	a.state = stateAwaitingStart
	a.escapeNext = false
	a.length = 0
	a.sum = 0
	a.buf = a.buf[:0]
	a.stats = AssemblerStats{}
}

// Stats returns a snapshot of the assembler counters.
func (a *StreamAssembler) Stats() AssemblerStats {
	return a.stats
}
