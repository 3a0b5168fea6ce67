package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-xbee/internal/util"
)

// reader is a cursor over an immutable frame data buffer.
// Each read advances the offset; the underlying buffer is never modified.
// The first failed read sets err and every subsequent read returns zero values.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}

	if r.remaining() < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortFrame, n, r.off, r.remaining())
		return nil
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

func (r *reader) byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint16(b)
}

func (r *reader) addr64() Address64 {
	var a Address64
	copy(a[:], r.take(8))

	return a
}

func (r *reader) addr16() Address16 {
	var a Address16
	copy(a[:], r.take(2))

	return a
}

func (r *reader) fixedString(n int) string {
	return string(r.take(n))
}

// cString reads a NUL-terminated string and consumes the terminator.
func (r *reader) cString() string {
	if r.err != nil {
		return ""
	}

	idx := bytes.IndexByte(r.buf[r.off:], 0x00)
	if idx < 0 {
		r.err = fmt.Errorf("%w: unterminated string at offset %d", ErrShortFrame, r.off)
		return ""
	}

	s := string(r.buf[r.off : r.off+idx])
	r.off += idx + 1

	return s
}

// rest returns a copy of the unread bytes and moves the cursor to the end.
func (r *reader) rest() []byte {
	if r.err != nil {
		return nil
	}

	out := util.CloneSlice(r.buf[r.off:], 0)
	r.off = len(r.buf)

	return out
}
