package xbee

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-xbee/frame"
)

var (
	// ErrConnClosed is returned to commands pending when the connection closes.
	ErrConnClosed = errors.New("xbee: connection closed")
	// ErrNotOpened is returned by operations on a connection that is not open.
	ErrNotOpened = errors.New("xbee: connection not opened")
	// ErrAlreadyOpened is returned by Open on an open connection.
	ErrAlreadyOpened = errors.New("xbee: connection already opened")
	// ErrCommandTimeout indicates that no response arrived before the command deadline.
	ErrCommandTimeout = errors.New("xbee: command response timeout")
	// ErrCommandFailed is matched by every error that carries a non-success status
	// reported by the radio.
	ErrCommandFailed = errors.New("xbee: command failed")
	// ErrTransport is matched by every transport I/O failure.
	ErrTransport = errors.New("xbee: transport error")
	// ErrUnknownCommand indicates an AT command name that is neither a mnemonic nor
	// a known symbolic name.
	ErrUnknownCommand = errors.New("xbee: unknown AT command")
	// ErrPinNotSampled indicates a sample that lacks the requested channel.
	ErrPinNotSampled = errors.New("xbee: pin not sampled")
	// ErrDiscoveryInProgress is returned by Discover while another discovery runs.
	ErrDiscoveryInProgress = errors.New("xbee: discovery in progress")
	// ErrUnexpectedResponse indicates a response of an unexpected type or size.
	ErrUnexpectedResponse = errors.New("xbee: unexpected response")
)

// CommandStatusError is a local or remote AT command answered with a status other
// than OK.
type CommandStatusError struct {
	Command string
	Status  frame.CommandStatus
	// Data is the command data of the response, usually empty.
	Data []byte
}

func (e *CommandStatusError) Error() string {
	return fmt.Sprintf("xbee: AT command %s failed: %s", e.Command, e.Status)
}

func (e *CommandStatusError) Is(target error) bool {
	return target == ErrCommandFailed
}

// DeliveryStatusError is a transmit request answered with a delivery status other
// than success.
type DeliveryStatusError struct {
	Status          frame.DeliveryStatus
	RetryCount      byte
	DiscoveryStatus frame.DiscoveryStatus
}

func (e *DeliveryStatusError) Error() string {
	return fmt.Sprintf("xbee: transmit failed: %s (retries %d, discovery %s)", e.Status, e.RetryCount, e.DiscoveryStatus)
}

func (e *DeliveryStatusError) Is(target error) bool {
	return target == ErrCommandFailed
}

// TransportError wraps an I/O error of the transport. It is fatal to the
// connection.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("xbee: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
