package xbee

import (
	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/iosample"
)

// dispatch routes a frame to exactly one destination. It runs on the read loop.
func (c *Connection) dispatch(f frame.ParsedFrame) {
	c.metrics.incFrameRecvCount()

	if cf, ok := f.(frame.Correlated); ok {
		c.dispatchResponse(f, pendingKey{typ: f.FrameType(), id: cf.FrameID()})
		return
	}

	switch v := f.(type) {
	case *frame.ModemStatusFrame:
		c.handleModemStatus(v)
	case *frame.NodeIdentificationFrame:
		c.handleNodeIdentification(v)
	case *frame.ReceivePacket:
		c.handleReceivePacket(v)
	case *frame.IOSampleRx:
		c.handleIOSample(v)
	case *frame.UnsupportedFrame:
		c.metrics.incUnsupportedFrameCount()
		c.logger.Debug("xbee: unsupported frame", "frameType", v.Type, "length", len(v.Data))
		c.emitFrame(v)
	default:
		c.logger.Debug("xbee: unhandled frame", "frameType", f.FrameType())
		c.emitFrame(f)
	}
}

// dispatchResponse hands a response to its discovery listener, if any, and to the
// command waiting for it. A response matching neither is late and dropped.
func (c *Connection) dispatchResponse(f frame.ParsedFrame, key pendingKey) {
	listener, listening := c.listeners.Load(key)
	if listening {
		listener(f)
	}

	if pc, ok := c.pending.LoadAndDelete(key); ok {
		pc.resp <- f
		return
	}

	if !listening {
		c.metrics.incLateResponseCount()
		c.logger.Debug("xbee: response without pending command dropped", "frameType", key.typ, "frameID", key.id)
	}
}

func (c *Connection) handleModemStatus(f *frame.ModemStatusFrame) {
	switch f.Status {
	case frame.ModemHardwareReset, frame.ModemWatchdogReset, frame.ModemJoinedNetwork,
		frame.ModemDisassociated, frame.ModemCoordinatorStarted:
		c.logger.Info("xbee: modem status", "status", f.Status)
	default:
		c.logger.Warn("xbee: unknown modem status", "status", f.Status)
	}

	c.emitModemStatus(f.Status)
}

func (c *Connection) handleNodeIdentification(f *frame.NodeIdentificationFrame) {
	ni := f.Node
	if ni == nil {
		var err error
		if ni, err = frame.ParseNodeIdentification(f.Payload); err != nil {
			c.metrics.incFrameErrCount()
			c.logger.Warn("xbee: invalid node identification", "addr64", f.Sender64, "error", err)

			return
		}
	}

	n := c.foldIdentification(ni)
	if round := c.round.Load(); round != nil {
		round.add(n)
	}
}

func (c *Connection) handleReceivePacket(f *frame.ReceivePacket) {
	n := c.touchNode(f.Remote64, f.Remote16)

	if c.cfg.useHeartbeat && string(f.Data) == c.cfg.heartbeatMarker {
		c.logger.Debug("xbee: heartbeat", "addr64", f.Remote64)
		return
	}

	n.deliverData(f.Data)
}

func (c *Connection) handleIOSample(f *frame.IOSampleRx) {
	n := c.touchNode(f.Remote64, f.Remote16)

	s, err := iosample.Decode(f.Sample)
	if err != nil {
		c.metrics.incFrameErrCount()
		c.logger.Warn("xbee: invalid I/O sample", "addr64", f.Remote64, "error", err)

		return
	}

	c.emitSample(n, s)
}
