// Package iosample decodes the I/O samples reported by XBee radios and describes
// their I/O pins.
//
// A sample payload is:
//
//	[count][digital mask (2)][analog mask (1)][digital values (2)?][analog value (2)]*
//
// The digital values are present only when the digital mask is non-zero. One
// big-endian analog value follows per bit set in the analog mask, in ascending
// bit order.
package iosample

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortSample indicates a sample payload shorter than its masks require.
var ErrShortSample = errors.New("iosample: sample payload too short")

const (
	// ADCResolution is the largest raw analog reading (10-bit ADC).
	ADCResolution = 1023
	// ADCReferenceMillivolts is the ADC reference voltage.
	ADCReferenceMillivolts = 1200
)

// DigitalChannels maps digital mask bits to channel names.
var DigitalChannels = map[int]string{
	0:  "DIO0",
	1:  "DIO1",
	2:  "DIO2",
	3:  "DIO3",
	4:  "DIO4",
	5:  "DIO5",
	6:  "DIO6",
	7:  "DIO7",
	10: "DIO10",
	11: "DIO11",
	12: "DIO12",
}

// AnalogChannels maps analog mask bits to channel names.
var AnalogChannels = map[int]string{
	0: "AD0",
	1: "AD1",
	2: "AD2",
	3: "AD3",
	7: "SUPPLY",
}

// Sample is a decoded I/O sample.
type Sample struct {
	// Count is the number of sample sets, always 1 on current firmware.
	Count       int
	DigitalMask uint16
	AnalogMask  uint8
	// Digital maps channel names such as "DIO3" to the pin level.
	Digital map[string]bool
	// Analog maps channel names such as "AD0" to millivolts.
	Analog map[string]float64
}

// DigitalValue returns the level of a digital channel and whether it was sampled.
func (s *Sample) DigitalValue(channel string) (bool, bool) {
	v, ok := s.Digital[channel]
	return v, ok
}

// AnalogValue returns the reading of an analog channel in millivolts and whether it
// was sampled.
func (s *Sample) AnalogValue(channel string) (float64, bool) {
	v, ok := s.Analog[channel]
	return v, ok
}

func (s *Sample) String() string {
	return fmt.Sprintf("Sample{digital: %v, analog: %v}", s.Digital, s.Analog)
}

// Millivolts converts a raw 10-bit ADC reading to millivolts.
func Millivolts(raw uint16) float64 {
	return float64(raw) * ADCReferenceMillivolts / ADCResolution
}

// Decode decodes an I/O sample payload.
//
// Bits set in a mask without a known channel name are skipped, but their analog
// values are still consumed so that later channels stay aligned.
func Decode(payload []byte) (*Sample, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: have %d bytes, need at least 4", ErrShortSample, len(payload))
	}

	s := &Sample{
		Count:       int(payload[0]),
		DigitalMask: binary.BigEndian.Uint16(payload[1:3]),
		AnalogMask:  payload[3],
		Digital:     make(map[string]bool),
		Analog:      make(map[string]float64),
	}

	off := 4
	if s.DigitalMask != 0 {
		if len(payload) < off+2 {
			return nil, fmt.Errorf("%w: missing digital values", ErrShortSample)
		}

		values := binary.BigEndian.Uint16(payload[off : off+2])
		off += 2

		for bit := range 16 {
			if s.DigitalMask&(1<<bit) == 0 {
				continue
			}
			if name, ok := DigitalChannels[bit]; ok {
				s.Digital[name] = values&(1<<bit) != 0
			}
		}
	}

	for bit := range 8 {
		if s.AnalogMask&(1<<bit) == 0 {
			continue
		}

		if len(payload) < off+2 {
			return nil, fmt.Errorf("%w: missing analog value for bit %d", ErrShortSample, bit)
		}

		raw := binary.BigEndian.Uint16(payload[off : off+2])
		off += 2

		if name, ok := AnalogChannels[bit]; ok {
			s.Analog[name] = Millivolts(raw)
		}
	}

	return s, nil
}
