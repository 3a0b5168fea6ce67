package xbee

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Transport is the byte stream to the local radio.
//
// Read may return (0, nil) when a read timeout elapses without data; the read
// loop then checks for shutdown and reads again. Close must unblock a pending
// Read.
type Transport interface {
	io.ReadWriteCloser
}

// TransportOpener opens the transport described by cfg. It is called by
// Connection.Open.
type TransportOpener func(cfg *ConnectionConfig) (Transport, error)

// OpenSerial opens the serial port named by cfg with 8 data bits, no parity and
// one stop bit at the configured baud rate. It is the default TransportOpener.
func OpenSerial(cfg *ConnectionConfig) (Transport, error) {
	if cfg.PortName() == "" {
		return nil, errors.New("xbee: serial port name is empty")
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate(),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.PortName(), mode)
	if err != nil {
		return nil, fmt.Errorf("xbee: open serial port %s: %w", cfg.PortName(), err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout()); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("xbee: set read timeout on %s: %w", cfg.PortName(), err)
	}

	return port, nil
}

// SerialPorts lists the serial ports of the host.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
