package xbee

import (
	"slices"

	"github.com/arloliu/go-xbee/frame"
)

// Nodes returns the known nodes ordered by 64-bit address.
func (c *Connection) Nodes() []*Node {
	nodes := make([]*Node, 0, c.nodes.Size())
	c.nodes.Range(func(_ frame.Address64, n *Node) bool {
		nodes = append(nodes, n)
		return true
	})
	sortNodes(nodes)

	return nodes
}

// Node returns the node with the 64-bit address addr64.
func (c *Connection) Node(addr64 frame.Address64) (*Node, bool) {
	return c.nodes.Load(addr64)
}

// AddNode registers a node without waiting for it to be discovered. The node is
// disconnected until it is heard from. If the node is known already, the existing
// node is returned.
func (c *Connection) AddNode(addr64 frame.Address64, addr16 frame.Address16) *Node {
	n, _ := c.nodeFor(addr64, addr16, false)
	return n
}

// nodeFor returns the node of addr64, creating it if needed. created reports
// whether it was created by this call.
func (c *Connection) nodeFor(addr64 frame.Address64, addr16 frame.Address16, connected bool) (n *Node, created bool) {
	n, loaded := c.nodes.LoadOrCompute(addr64, func() *Node {
		return newNode(c, addr64, addr16, connected)
	})
	if loaded {
		return n, false
	}

	c.metrics.incNodeCount()
	if connected {
		c.metrics.incNodeConnectedCount()
	}
	if factory := c.cfg.dataParser; factory != nil {
		n.SetDataParser(factory(n))
	}
	c.logger.Info("xbee: new node", "addr64", addr64, "addr16", addr16)

	return n, true
}

// foldIdentification applies a node identification record from an unsolicited
// frame or a discovery response, and raises the matching events.
func (c *Connection) foldIdentification(ni *frame.NodeIdentification) *Node {
	n, created := c.nodeFor(ni.Remote64, ni.Remote16, true)
	reconnected := n.identify(ni)
	c.afterActivity(n, reconnected)

	if created {
		c.emitNodeEvent(n, NodeDiscovered)
	} else {
		c.logger.Debug("xbee: node rediscovered", "addr64", ni.Remote64, "addr16", ni.Remote16, "id", ni.ID)
		c.emitNodeEvent(n, NodeRediscovered)
	}

	return n
}

// touchNode records traffic from a node, creating the node on first sight.
func (c *Connection) touchNode(addr64 frame.Address64, addr16 frame.Address16) *Node {
	n, created := c.nodeFor(addr64, addr16, true)
	if created {
		c.emitNodeEvent(n, NodeDiscovered)
	}
	c.afterActivity(n, n.markActive(addr16))

	return n
}

func (c *Connection) afterActivity(n *Node, reconnected bool) {
	if reconnected {
		c.metrics.incNodeConnectedCount()
		c.logger.Info("xbee: node reconnected", "addr64", n.addr64)
		c.emitNodeEvent(n, NodeReconnected)
	}
	if c.cfg.useHeartbeat {
		n.refreshHeartbeat(c.cfg.heartbeatTimeout)
	}
}

// rearmHeartbeats restarts the inactivity timer of every connected node, so that
// nodes known before a reopen are still disconnected when they stay silent.
func (c *Connection) rearmHeartbeats() {
	if !c.cfg.useHeartbeat {
		return
	}

	c.nodes.Range(func(_ frame.Address64, n *Node) bool {
		if n.Connected() {
			n.refreshHeartbeat(c.cfg.heartbeatTimeout)
		}
		return true
	})
}

func (c *Connection) stopHeartbeats() {
	c.nodes.Range(func(_ frame.Address64, n *Node) bool {
		n.stopHeartbeat()
		return true
	})
}

func sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		switch x, y := a.addr64.Uint64(), b.addr64.Uint64(); {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	})
}
