package xbee

import (
	"context"
	"sync"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/internal/task"
	"github.com/arloliu/go-xbee/iosample"
)

// NodeEvent is a change of the membership or connectivity of a node.
type NodeEvent int

const (
	// NodeDiscovered is raised the first time a 64-bit address is seen.
	NodeDiscovered NodeEvent = iota + 1
	// NodeRediscovered is raised when a known node identifies itself again.
	NodeRediscovered
	// NodeDisconnected is raised when a node was silent for the heartbeat timeout.
	NodeDisconnected
	// NodeReconnected is raised when a disconnected node is heard from again.
	NodeReconnected
)

func (e NodeEvent) String() string {
	switch e {
	case NodeDiscovered:
		return "discovered"
	case NodeRediscovered:
		return "rediscovered"
	case NodeDisconnected:
		return "disconnected"
	case NodeReconnected:
		return "reconnected"
	default:
		return "unknown"
	}
}

// ModemStatusHandler receives the modem status reports of the local radio.
type ModemStatusHandler func(status frame.ModemStatus)

// NodeEventHandler receives node events of every node.
type NodeEventHandler func(node *Node, ev NodeEvent)

// DataHandler receives the data sent by remote nodes. Heartbeat packets are not
// delivered.
type DataHandler func(node *Node, data []byte)

// IOSampleHandler receives the I/O samples sent by remote nodes.
type IOSampleHandler func(node *Node, sample *iosample.Sample)

// DiscoveryEndedHandler receives the nodes seen by a finished discovery round.
type DiscoveryEndedHandler func(nodes []*Node)

// FrameHandler receives unsolicited frames that the connection does not consume
// itself, such as frames of an unsupported type or of a custom registry parser.
type FrameHandler func(f frame.ParsedFrame)

// handlerSet holds the connection level handlers.
//
// Handlers run one at a time on the event goroutine of the connection, in the order
// their events occurred. They may issue commands on the connection. The event queue
// is unbounded, so a slow handler never holds up the read loop.
type handlerSet struct {
	mu        sync.RWMutex
	modem     []ModemStatusHandler
	node      []NodeEventHandler
	data      []DataHandler
	sample    []IOSampleHandler
	discovery []DiscoveryEndedHandler
	frame     []FrameHandler
}

// AddModemStatusHandler registers a handler of modem status reports.
func (c *Connection) AddModemStatusHandler(h ModemStatusHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.modem = append(c.handlers.modem, h)
}

// AddNodeEventHandler registers a handler of node events.
func (c *Connection) AddNodeEventHandler(h NodeEventHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.node = append(c.handlers.node, h)
}

// AddDataHandler registers a handler of received data.
func (c *Connection) AddDataHandler(h DataHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.data = append(c.handlers.data, h)
}

// AddIOSampleHandler registers a handler of received I/O samples.
func (c *Connection) AddIOSampleHandler(h IOSampleHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.sample = append(c.handlers.sample, h)
}

// AddDiscoveryEndedHandler registers a handler called at the end of each discovery
// round.
func (c *Connection) AddDiscoveryEndedHandler(h DiscoveryEndedHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.discovery = append(c.handlers.discovery, h)
}

// AddFrameHandler registers a handler of unsolicited frames that are not consumed
// by the connection.
func (c *Connection) AddFrameHandler(h FrameHandler) {
	c.handlers.mu.Lock()
	defer c.handlers.mu.Unlock()
	c.handlers.frame = append(c.handlers.frame, h)
}

// emit queues job for the event goroutine and never blocks. Jobs emitted after the
// connection started closing are dropped.
func (c *Connection) emit(job func()) {
	if c.runContext().Err() != nil {
		c.logger.Debug("xbee: event dropped, connection closed")
		return
	}

	c.evMu.Lock()
	c.events.Enqueue(job)
	c.evMu.Unlock()

	select {
	case c.evNotify <- struct{}{}:
	default:
	}
}

func (c *Connection) nextEvent() (func(), bool) {
	c.evMu.Lock()
	defer c.evMu.Unlock()

	return c.events.Dequeue()
}

// eventLoopTask runs the queued handler jobs one at a time, in order.
func (c *Connection) eventLoopTask(ctx context.Context) task.Func {
	return func() bool {
		job, ok := c.nextEvent()
		if !ok {
			select {
			case <-ctx.Done():
				return false
			case <-c.evNotify:
				return true
			}
		}
		c.runEvent(job)

		return true
	}
}

// runEvent runs job, logging a panic instead of ending the event loop.
func (c *Connection) runEvent(job func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("xbee: panic in event handler", "panic", r)
		}
	}()

	job()
}

func (c *Connection) emitModemStatus(status frame.ModemStatus) {
	c.handlers.mu.RLock()
	hs := c.handlers.modem
	c.handlers.mu.RUnlock()

	if len(hs) == 0 {
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(status)
		}
	})
}

func (c *Connection) emitNodeEvent(n *Node, ev NodeEvent) {
	c.handlers.mu.RLock()
	hs := c.handlers.node
	c.handlers.mu.RUnlock()
	nhs := n.eventHandlers()

	if len(hs) == 0 && len(nhs) == 0 {
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(n, ev)
		}
		for _, h := range nhs {
			h(ev)
		}
	})
}

func (c *Connection) emitData(n *Node, data []byte) {
	c.handlers.mu.RLock()
	hs := c.handlers.data
	c.handlers.mu.RUnlock()
	nhs := n.dataHandlers()

	if len(hs) == 0 && len(nhs) == 0 {
		c.logger.Debug("xbee: data without handler", "addr64", n.Address64(), "length", len(data))
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(n, data)
		}
		for _, h := range nhs {
			h(data)
		}
	})
}

func (c *Connection) emitSample(n *Node, s *iosample.Sample) {
	c.handlers.mu.RLock()
	hs := c.handlers.sample
	c.handlers.mu.RUnlock()
	nhs := n.sampleHandlers()

	if len(hs) == 0 && len(nhs) == 0 {
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(n, s)
		}
		for _, h := range nhs {
			h(s)
		}
	})
}

func (c *Connection) emitDiscoveryEnded(nodes []*Node) {
	c.handlers.mu.RLock()
	hs := c.handlers.discovery
	c.handlers.mu.RUnlock()

	if len(hs) == 0 {
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(nodes)
		}
	})
}

func (c *Connection) emitFrame(f frame.ParsedFrame) {
	c.handlers.mu.RLock()
	hs := c.handlers.frame
	c.handlers.mu.RUnlock()

	if len(hs) == 0 {
		return
	}
	c.emit(func() {
		for _, h := range hs {
			h(f)
		}
	})
}

// drainEvents discards the jobs left in the event queue.
func (c *Connection) drainEvents() {
	c.evMu.Lock()
	dropped := c.events.Reset()
	c.evMu.Unlock()

	if len(dropped) > 0 {
		c.logger.Debug("xbee: pending events dropped", "count", len(dropped))
	}
}

// runContext returns the context of the current open generation. It is done once
// the connection starts closing.
func (c *Connection) runContext() context.Context {
	c.ctxMu.RLock()
	defer c.ctxMu.RUnlock()

	return c.runCtx
}
