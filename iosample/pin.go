package iosample

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPin indicates a pin number or name that is not in the pin table.
	ErrUnknownPin = errors.New("iosample: unknown pin")

	// ErrNotDigital indicates a pin that has no digital channel.
	ErrNotDigital = errors.New("iosample: pin has no digital channel")

	// ErrNotAnalog indicates a pin that has no analog channel.
	ErrNotAnalog = errors.New("iosample: pin has no analog channel")
)

// NoChannel marks a missing digital or analog channel bit in a Pin.
const NoChannel = -1

// Pin describes an I/O line of the radio module (through-hole form factor).
type Pin struct {
	// Name is the digital channel name, e.g. "DIO3".
	Name string
	// Command is the AT command that configures the pin, e.g. "D3".
	// It is empty for lines that cannot be configured.
	Command string
	// Physical is the module pin number, or 0 if the line has no pin.
	Physical int
	// DigitalBit is the bit of the line in sample and change detection masks.
	DigitalBit int
	// AnalogBit is the bit of the line in the analog sample mask.
	AnalogBit int
}

// DigitalChannel returns the channel name used in decoded samples for the digital line.
func (p Pin) DigitalChannel() (string, bool) {
	if p.DigitalBit == NoChannel {
		return "", false
	}
	name, ok := DigitalChannels[p.DigitalBit]

	return name, ok
}

// AnalogChannel returns the channel name used in decoded samples for the analog line.
func (p Pin) AnalogChannel() (string, bool) {
	if p.AnalogBit == NoChannel {
		return "", false
	}
	name, ok := AnalogChannels[p.AnalogBit]

	return name, ok
}

func (p Pin) String() string {
	if p.Physical == 0 {
		return p.Name
	}

	return fmt.Sprintf("%s(pin %d)", p.Name, p.Physical)
}

// Pins of the module.
var (
	DIO0  = Pin{Name: "DIO0", Command: "D0", Physical: 20, DigitalBit: 0, AnalogBit: 0}
	DIO1  = Pin{Name: "DIO1", Command: "D1", Physical: 19, DigitalBit: 1, AnalogBit: 1}
	DIO2  = Pin{Name: "DIO2", Command: "D2", Physical: 18, DigitalBit: 2, AnalogBit: 2}
	DIO3  = Pin{Name: "DIO3", Command: "D3", Physical: 17, DigitalBit: 3, AnalogBit: 3}
	DIO4  = Pin{Name: "DIO4", Command: "D4", Physical: 11, DigitalBit: 4, AnalogBit: NoChannel}
	DIO5  = Pin{Name: "DIO5", Command: "D5", Physical: 15, DigitalBit: 5, AnalogBit: NoChannel}
	DIO6  = Pin{Name: "DIO6", Command: "D6", Physical: 16, DigitalBit: 6, AnalogBit: NoChannel}
	DIO7  = Pin{Name: "DIO7", Command: "D7", Physical: 12, DigitalBit: 7, AnalogBit: NoChannel}
	DIO10 = Pin{Name: "DIO10", Command: "P0", Physical: 6, DigitalBit: 10, AnalogBit: NoChannel}
	DIO11 = Pin{Name: "DIO11", Command: "P1", Physical: 7, DigitalBit: 11, AnalogBit: NoChannel}
	DIO12 = Pin{Name: "DIO12", Command: "P2", Physical: 4, DigitalBit: 12, AnalogBit: NoChannel}

	// Supply is the supply voltage monitor. It is sampled like an analog line but has
	// no pin and cannot be configured.
	Supply = Pin{Name: "SUPPLY", DigitalBit: NoChannel, AnalogBit: 7}
)

var allPins = []Pin{DIO0, DIO1, DIO2, DIO3, DIO4, DIO5, DIO6, DIO7, DIO10, DIO11, DIO12, Supply}

// Pins returns every known pin.
func Pins() []Pin {
	out := make([]Pin, len(allPins))
	copy(out, allPins)

	return out
}

// PinByNumber returns the pin at a physical pin number.
func PinByNumber(physical int) (Pin, error) {
	for _, p := range allPins {
		if p.Physical != 0 && p.Physical == physical {
			return p, nil
		}
	}

	return Pin{}, fmt.Errorf("%w: pin number %d", ErrUnknownPin, physical)
}

// PinByName returns the pin with the given name. It accepts the digital channel name
// ("DIO3"), the analog channel name ("AD3") or the AT command ("D3"), in any case.
func PinByName(name string) (Pin, error) {
	n := strings.ToUpper(strings.TrimSpace(name))

	for _, p := range allPins {
		if n == p.Name || (p.Command != "" && n == p.Command) {
			return p, nil
		}
		if ch, ok := p.AnalogChannel(); ok && n == ch {
			return p, nil
		}
	}

	return Pin{}, fmt.Errorf("%w: %q", ErrUnknownPin, name)
}

// ChangeDetectionMask builds the IC command mask that makes the radio send a sample
// whenever one of the given digital lines changes.
func ChangeDetectionMask(pins ...Pin) (uint16, error) {
	var mask uint16
	for _, p := range pins {
		if p.DigitalBit == NoChannel {
			return 0, fmt.Errorf("%w: %s", ErrNotDigital, p)
		}
		mask |= 1 << p.DigitalBit
	}

	return mask, nil
}

// EncodeMask returns the big-endian parameter bytes of a 16-bit mask.
func EncodeMask(mask uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, mask)
}
