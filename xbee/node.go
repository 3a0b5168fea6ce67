package xbee

import (
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/iosample"
)

// Node is a remote radio known to a Connection.
//
// A Node is never replaced: later sightings of the same 64-bit address update it in
// place, so handlers attached to it stay attached. Its connectivity is only changed
// by the connection.
type Node struct {
	conn   *Connection
	addr64 frame.Address64

	mu           sync.RWMutex
	addr16       frame.Address16
	id           string
	parent16     frame.Address16
	role         frame.DeviceType
	connected    bool
	lastActivity time.Time
	parser       DataParser
	hbTimer      *time.Timer
	hbGen        uint64

	handlerMu sync.RWMutex
	onEvent   []func(ev NodeEvent)
	onData    []func(data []byte)
	onSample  []func(sample *iosample.Sample)
}

func newNode(c *Connection, addr64 frame.Address64, addr16 frame.Address16, connected bool) *Node {
	n := &Node{
		conn:      c,
		addr64:    addr64,
		addr16:    addr16,
		parent16:  frame.UnknownAddress16,
		role:      frame.DeviceUnknown,
		connected: connected,
	}
	if connected {
		n.lastActivity = time.Now()
	}

	return n
}

// Address64 returns the 64-bit address, the identity of the node.
func (n *Node) Address64() frame.Address64 {
	return n.addr64
}

// Address16 returns the 16-bit network address, which changes when the node
// rejoins the network.
func (n *Node) Address16() frame.Address16 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.addr16
}

// ID returns the node identifier string (NI).
func (n *Node) ID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.id
}

// Role returns the device type reported by node identification.
func (n *Node) Role() frame.DeviceType {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.role
}

// Parent16 returns the 16-bit address of the parent of an end device.
func (n *Node) Parent16() frame.Address16 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.parent16
}

// Connected reports whether the node is considered reachable.
func (n *Node) Connected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.connected
}

// LastActivity returns the time the node was last heard from.
func (n *Node) LastActivity() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.lastActivity
}

func (n *Node) IsCoordinator() bool { return n.Role() == frame.DeviceCoordinator }

func (n *Node) IsRouter() bool { return n.Role() == frame.DeviceRouter }

func (n *Node) IsEndDevice() bool { return n.Role() == frame.DeviceEndDevice }

func (n *Node) String() string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.id == "" {
		return fmt.Sprintf("Node(%s, %s)", n.addr64, n.addr16)
	}

	return fmt.Sprintf("Node(%s, %s, %q)", n.addr64, n.addr16, n.id)
}

// SetDataParser replaces the data handlers of this node with p. A nil p restores
// the handlers.
func (n *Node) SetDataParser(p DataParser) {
	n.mu.Lock()
	n.parser = p
	n.mu.Unlock()
}

// AddEventHandler registers a handler of the events of this node.
func (n *Node) AddEventHandler(h func(ev NodeEvent)) {
	n.handlerMu.Lock()
	defer n.handlerMu.Unlock()
	n.onEvent = append(n.onEvent, h)
}

// AddDataHandler registers a handler of the data sent by this node.
func (n *Node) AddDataHandler(h func(data []byte)) {
	n.handlerMu.Lock()
	defer n.handlerMu.Unlock()
	n.onData = append(n.onData, h)
}

// AddIOSampleHandler registers a handler of the I/O samples sent by this node.
func (n *Node) AddIOSampleHandler(h func(sample *iosample.Sample)) {
	n.handlerMu.Lock()
	defer n.handlerMu.Unlock()
	n.onSample = append(n.onSample, h)
}

func (n *Node) eventHandlers() []func(ev NodeEvent) {
	n.handlerMu.RLock()
	defer n.handlerMu.RUnlock()

	return n.onEvent
}

func (n *Node) dataHandlers() []func(data []byte) {
	n.handlerMu.RLock()
	defer n.handlerMu.RUnlock()

	return n.onData
}

func (n *Node) sampleHandlers() []func(sample *iosample.Sample) {
	n.handlerMu.RLock()
	defer n.handlerMu.RUnlock()

	return n.onSample
}

// --- remote operations ---

// Send transmits data to the node, split into as many frames as needed.
func (n *Node) Send(data []byte) error {
	return n.conn.Send(data, n.addr64, n.Address16())
}

// AT sends an AT command to the node and returns the command data of the response.
func (n *Node) AT(command string, param []byte) ([]byte, error) {
	return n.conn.RemoteAT(n.addr64, n.Address16(), command, param)
}

// SetPinMode configures an I/O line of the node.
func (n *Node) SetPinMode(pin iosample.Pin, mode iosample.PinMode) error {
	return n.conn.SetPinMode(pin, mode, n)
}

// GetPinMode reads the configuration of an I/O line of the node.
func (n *Node) GetPinMode(pin iosample.Pin) (iosample.PinMode, error) {
	return n.conn.GetPinMode(pin, n)
}

// SetChangeDetection makes the node send a sample whenever one of pins changes.
func (n *Node) SetChangeDetection(pins ...iosample.Pin) error {
	return n.conn.SetChangeDetection(pins, n)
}

// SetSampleInterval makes the node send a sample every d. Zero disables periodic
// sampling.
func (n *Node) SetSampleInterval(d time.Duration) error {
	return n.conn.SetSampleInterval(d, n)
}

// GetSample takes an I/O sample on the node.
func (n *Node) GetSample() (*iosample.Sample, error) {
	return n.conn.GetSample(n)
}

// GetAnalogPin samples an analog line of the node and returns millivolts.
func (n *Node) GetAnalogPin(pin iosample.Pin) (float64, error) {
	return n.conn.GetAnalogPin(pin, n)
}

// GetDigitalPin samples a digital line of the node.
func (n *Node) GetDigitalPin(pin iosample.Pin) (bool, error) {
	return n.conn.GetDigitalPin(pin, n)
}

// --- state updates, called by the connection ---

// identify applies a node identification record. It reports whether the node was
// disconnected before.
func (n *Node) identify(ni *frame.NodeIdentification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.addr16 = ni.Remote16
	n.id = ni.ID
	n.parent16 = ni.RemoteParent16
	n.role = ni.DeviceType

	return n.markActiveLocked()
}

// markActive records activity. It reports whether the node was disconnected before.
func (n *Node) markActive(addr16 frame.Address16) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if addr16 != frame.UnknownAddress16 {
		n.addr16 = addr16
	}

	return n.markActiveLocked()
}

func (n *Node) markActiveLocked() bool {
	n.lastActivity = time.Now()
	if n.connected {
		return false
	}
	n.connected = true

	return true
}

func (n *Node) deliverData(data []byte) {
	n.mu.RLock()
	p := n.parser
	n.mu.RUnlock()

	if p != nil {
		n.conn.emit(func() { p.Parse(data) })
		return
	}

	n.conn.emitData(n, data)
}

// refreshHeartbeat restarts the inactivity timer of the node.
func (n *Node) refreshHeartbeat(timeout time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hbTimer != nil {
		n.hbTimer.Stop()
	}
	n.hbGen++
	gen := n.hbGen
	n.hbTimer = time.AfterFunc(timeout, func() { n.heartbeatExpired(gen) })
}

// heartbeatExpired disconnects the node unless its timer was refreshed or stopped
// after gen was armed.
func (n *Node) heartbeatExpired(gen uint64) {
	n.mu.Lock()
	if gen != n.hbGen || !n.connected {
		n.mu.Unlock()
		return
	}
	n.connected = false
	n.hbTimer = nil
	n.mu.Unlock()

	n.conn.metrics.decNodeConnectedCount()
	n.conn.logger.Info("xbee: node heartbeat timeout", "addr64", n.addr64)
	n.conn.emitNodeEvent(n, NodeDisconnected)
}

func (n *Node) stopHeartbeat() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hbTimer != nil {
		n.hbTimer.Stop()
		n.hbTimer = nil
	}
	n.hbGen++
}
