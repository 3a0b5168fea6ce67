// Package util holds small helpers shared by the go-xbee packages.
package util

import (
	"encoding/hex"
	"strings"
)

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// HexString formats b as upper case hex without separators, the way AT command
// values are shown by the radio, e.g. "0013A200".
func HexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// BigEndianUint decodes up to 8 big-endian bytes. Longer input keeps the low
// order 8 bytes.
func BigEndianUint(b []byte) uint64 {
	if len(b) > 8 {
		b = b[len(b)-8:]
	}

	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

// TrimNull returns b as a string, cut at its first NUL byte.
func TrimNull(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}

	return string(b)
}
