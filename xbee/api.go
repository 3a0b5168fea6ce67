package xbee

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/iosample"
)

// MaxSampleInterval is the longest periodic sampling interval (IR).
const MaxSampleInterval = 0xFFFF * time.Millisecond

// resolveCommand accepts a mnemonic such as "NI" or a symbolic name such as
// "NodeIdentifier".
func resolveCommand(name string) (string, error) {
	if mnemonic, ok := frame.LookupATCommand(name); ok {
		return mnemonic, nil
	}
	if len(name) == 2 {
		return strings.ToUpper(name), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// AT sends an AT command to the local radio and returns the command data of the
// response. A nil param queries the register.
//
// A response with a status other than OK is returned as *CommandStatusError.
func (c *Connection) AT(command string, param []byte) ([]byte, error) {
	mnemonic, err := resolveCommand(command)
	if err != nil {
		return nil, err
	}

	cmd, err := frame.NewATCommand(mnemonic, param)
	if err != nil {
		return nil, err
	}

	f, err := c.command(cmd)
	if err != nil {
		return nil, err
	}

	r, ok := f.(*frame.ATCommandResponse)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, f.FrameType())
	}

	return r.Data, nil
}

// RemoteAT sends an AT command to a remote radio. Changes are applied on the remote
// radio immediately.
func (c *Connection) RemoteAT(dest64 frame.Address64, dest16 frame.Address16, command string, param []byte) ([]byte, error) {
	mnemonic, err := resolveCommand(command)
	if err != nil {
		return nil, err
	}

	cmd, err := frame.NewRemoteATCommand(dest64, dest16, mnemonic, param)
	if err != nil {
		return nil, err
	}

	f, err := c.command(cmd)
	if err != nil {
		return nil, err
	}

	r, ok := f.(*frame.RemoteCommandResponse)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, f.FrameType())
	}

	return r.Data, nil
}

// Send transmits data to a remote radio. Data longer than frame.MaxPayloadSize is
// split into several transmit requests, sent in order; Send stops at the first
// failed delivery.
func (c *Connection) Send(data []byte, dest64 frame.Address64, dest16 frame.Address16) error {
	reqs := frame.SplitTransmit(dest64, dest16, data)
	cmds := make([]frame.Command, len(reqs))
	for i, r := range reqs {
		cmds[i] = r
	}

	_, err := c.issue(&request{cmds: cmds})

	return err
}

// Broadcast transmits data to every radio of the network.
func (c *Connection) Broadcast(data []byte) error {
	return c.Send(data, frame.BroadcastAddress64, frame.UnknownAddress16)
}

// at sends command to remote, or to the local radio when remote is nil.
func (c *Connection) at(remote *Node, command string, param []byte) ([]byte, error) {
	if remote == nil {
		return c.AT(command, param)
	}

	return c.RemoteAT(remote.Address64(), remote.Address16(), command, param)
}

// SetChangeDetection makes the radio send a sample whenever one of pins changes
// (IC). No pins disables change detection.
func (c *Connection) SetChangeDetection(pins []iosample.Pin, remote *Node) error {
	mask, err := iosample.ChangeDetectionMask(pins...)
	if err != nil {
		return err
	}

	_, err = c.at(remote, "IC", iosample.EncodeMask(mask))

	return err
}

// SetSampleInterval sets the periodic sampling interval (IR), in whole
// milliseconds. Zero disables periodic sampling.
func (c *Connection) SetSampleInterval(d time.Duration, remote *Node) error {
	if d < 0 || d > MaxSampleInterval {
		return fmt.Errorf("xbee: sample interval %v out of range [0, %v]", d, MaxSampleInterval)
	}

	param := binary.BigEndian.AppendUint16(nil, uint16(d.Milliseconds()))
	_, err := c.at(remote, "IR", param)

	return err
}

// GetSample takes an I/O sample (IS).
func (c *Connection) GetSample(remote *Node) (*iosample.Sample, error) {
	data, err := c.at(remote, "IS", nil)
	if err != nil {
		return nil, err
	}

	return iosample.Decode(data)
}

// GetAnalogPin samples the analog line of pin and returns millivolts.
func (c *Connection) GetAnalogPin(pin iosample.Pin, remote *Node) (float64, error) {
	ch, ok := pin.AnalogChannel()
	if !ok {
		return 0, fmt.Errorf("%w: %s", iosample.ErrNotAnalog, pin)
	}

	s, err := c.GetSample(remote)
	if err != nil {
		return 0, err
	}

	v, ok := s.AnalogValue(ch)
	if !ok {
		return 0, fmt.Errorf("%w: radio not configured to take analog samples on %s", ErrPinNotSampled, pin)
	}

	return v, nil
}

// GetDigitalPin samples the digital line of pin.
func (c *Connection) GetDigitalPin(pin iosample.Pin, remote *Node) (bool, error) {
	ch, ok := pin.DigitalChannel()
	if !ok {
		return false, fmt.Errorf("%w: %s", iosample.ErrNotDigital, pin)
	}

	s, err := c.GetSample(remote)
	if err != nil {
		return false, err
	}

	v, ok := s.DigitalValue(ch)
	if !ok {
		return false, fmt.Errorf("%w: radio not configured to take digital samples on %s", ErrPinNotSampled, pin)
	}

	return v, nil
}

// GetPinMode reads the configuration of pin.
func (c *Connection) GetPinMode(pin iosample.Pin, remote *Node) (iosample.PinMode, error) {
	if pin.Command == "" {
		return 0, fmt.Errorf("%w: %s", iosample.ErrNotConfigurable, pin)
	}

	data, err := c.at(remote, pin.Command, nil)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty %s response", ErrUnexpectedResponse, pin.Command)
	}

	return iosample.PinMode(data[0]), nil
}

// SetPinMode configures pin. The mode must be supported by the pin.
func (c *Connection) SetPinMode(pin iosample.Pin, mode iosample.PinMode, remote *Node) error {
	if err := iosample.CheckMode(pin, mode); err != nil {
		return err
	}

	_, err := c.at(remote, pin.Command, []byte{byte(mode)})

	return err
}

// SetPinModeByName configures pin with a mode name such as "DigitalInput".
func (c *Connection) SetPinModeByName(pin iosample.Pin, name string, remote *Node) error {
	mode, err := iosample.ModeFor(pin, name)
	if err != nil {
		return err
	}

	return c.SetPinMode(pin, mode, remote)
}
