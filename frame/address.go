package frame

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Address64 is the 64-bit IEEE address of a radio. It never changes for a given radio.
type Address64 [8]byte

// Address16 is the 16-bit network address assigned on association. It may change when
// a radio rejoins the network.
type Address16 [2]byte

var (
	// CoordinatorAddress64 addresses the network coordinator.
	CoordinatorAddress64 = Address64{}
	// BroadcastAddress64 addresses every radio on the network.
	BroadcastAddress64 = Address64{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF}
	// UnknownAddress16 is used when the 16-bit address of the destination is not known.
	UnknownAddress16 = Address16{0xFF, 0xFE}
)

// Uint64 returns the address as a big-endian integer.
func (a Address64) Uint64() uint64 {
	return binary.BigEndian.Uint64(a[:])
}

// String returns the address as 16 lowercase hex digits.
func (a Address64) String() string {
	return hex.EncodeToString(a[:])
}

// IsBroadcast reports whether a is the broadcast address.
func (a Address64) IsBroadcast() bool {
	return a == BroadcastAddress64
}

// Uint16 returns the address as a big-endian integer.
func (a Address16) Uint16() uint16 {
	return binary.BigEndian.Uint16(a[:])
}

// String returns the address as 4 lowercase hex digits.
func (a Address16) String() string {
	return hex.EncodeToString(a[:])
}

// NewAddress64 builds an Address64 from its integer form.
func NewAddress64(v uint64) Address64 {
	var a Address64
	binary.BigEndian.PutUint64(a[:], v)

	return a
}

// NewAddress16 builds an Address16 from its integer form.
func NewAddress16(v uint16) Address16 {
	var a Address16
	binary.BigEndian.PutUint16(a[:], v)

	return a
}

// ParseAddress64 parses a 16 hex digit address such as "0013a200408b9437".
// Colons and spaces between digit pairs are ignored.
func ParseAddress64(s string) (Address64, error) {
	var a Address64

	clean := strings.NewReplacer(":", "", " ", "").Replace(s)
	if len(clean) != 2*len(a) {
		return a, fmt.Errorf("frame: invalid 64-bit address %q: want 16 hex digits", s)
	}

	if _, err := hex.Decode(a[:], []byte(clean)); err != nil {
		return a, fmt.Errorf("frame: invalid 64-bit address %q: %w", s, err)
	}

	return a, nil
}

// ParseAddress16 parses a 4 hex digit network address such as "fffe".
func ParseAddress16(s string) (Address16, error) {
	var a Address16

	if len(s) != 2*len(a) {
		return a, fmt.Errorf("frame: invalid 16-bit address %q: want 4 hex digits", s)
	}

	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("frame: invalid 16-bit address %q: %w", s, err)
	}

	return a, nil
}
