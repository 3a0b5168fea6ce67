package iosample

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedMode indicates a pin mode that the pin does not support.
var ErrUnsupportedMode = errors.New("iosample: mode not supported by pin")

// ErrNotConfigurable indicates a line without a configuration command.
var ErrNotConfigurable = errors.New("iosample: pin cannot be configured")

// PinMode is the parameter of a pin configuration command (D0..D7, P0..P2).
// The meaning of values 1, 6 and 7 depends on the pin.
type PinMode byte

// Pin modes.
const (
	ModeDisabled          PinMode = 0
	ModeAnalogInput       PinMode = 2
	ModeDigitalInput      PinMode = 3
	ModeDigitalOutputLow  PinMode = 4
	ModeDigitalOutputHigh PinMode = 5

	// Pin specific modes.
	ModeCommissioningButton PinMode = 1 // DIO0
	ModeAssociatedIndicator PinMode = 1 // DIO5
	ModeRTSFlowControl      PinMode = 1 // DIO6
	ModeCTSFlowControl      PinMode = 1 // DIO7
	ModeRS485TxEnableLow    PinMode = 6 // DIO7
	ModeRS485TxEnableHigh   PinMode = 7 // DIO7
	ModeRSSIPWM             PinMode = 1 // DIO10
)

type modeEntry struct {
	name string
	mode PinMode
}

var digitalModes = []modeEntry{
	{"Disabled", ModeDisabled},
	{"DigitalInput", ModeDigitalInput},
	{"DigitalOutputLow", ModeDigitalOutputLow},
	{"DigitalOutputHigh", ModeDigitalOutputHigh},
}

var analogModes = append([]modeEntry{{"AnalogInput", ModeAnalogInput}}, digitalModes...)

// pinModes lists the modes supported by each configuration command.
var pinModes = map[string][]modeEntry{
	"D0": append([]modeEntry{{"CommissioningButton", ModeCommissioningButton}}, analogModes...),
	"D1": analogModes,
	"D2": analogModes,
	"D3": analogModes,
	"D4": digitalModes,
	"D5": append([]modeEntry{{"AssociatedIndicator", ModeAssociatedIndicator}}, digitalModes...),
	"D6": append([]modeEntry{{"RTSFlowControl", ModeRTSFlowControl}}, digitalModes...),
	"D7": append([]modeEntry{
		{"CTSFlowControl", ModeCTSFlowControl},
		{"RS485TxEnableLow", ModeRS485TxEnableLow},
		{"RS485TxEnableHigh", ModeRS485TxEnableHigh},
	}, digitalModes...),
	"P0": append([]modeEntry{{"RSSIPWM", ModeRSSIPWM}}, digitalModes...),
	"P1": digitalModes,
	"P2": digitalModes,
}

// normalizeModeName folds "DIGITAL_INPUT", "digital-input" and "DigitalInput" together.
func normalizeModeName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
}

// ModeFor resolves a mode name such as "DigitalInput" or "DIGITAL_INPUT" for a pin.
func ModeFor(p Pin, name string) (PinMode, error) {
	modes, ok := pinModes[p.Command]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotConfigurable, p)
	}

	n := normalizeModeName(name)
	for _, e := range modes {
		if normalizeModeName(e.name) == n {
			return e.mode, nil
		}
	}

	return 0, fmt.Errorf("%w: %q for %s", ErrUnsupportedMode, name, p)
}

// CheckMode returns an error unless the pin supports mode.
func CheckMode(p Pin, mode PinMode) error {
	modes, ok := pinModes[p.Command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, p)
	}

	for _, e := range modes {
		if e.mode == mode {
			return nil
		}
	}

	return fmt.Errorf("%w: %d for %s", ErrUnsupportedMode, mode, p)
}

// ModeName returns the name of mode on pin p, or a numeric form if p does not
// support it.
func ModeName(p Pin, mode PinMode) string {
	for _, e := range pinModes[p.Command] {
		if e.mode == mode {
			return e.name
		}
	}

	return fmt.Sprintf("PinMode(%d)", mode)
}
