package xbee

import (
	"errors"
	"sync"
	"time"

	"github.com/arloliu/go-xbee/frame"
)

// discoveryRound collects the nodes answering one ND command or announcing
// themselves during its window.
type discoveryRound struct {
	mu    sync.Mutex
	seen  map[frame.Address64]struct{}
	nodes []*Node
}

func (r *discoveryRound) add(n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[n.addr64]; ok {
		return
	}
	r.seen[n.addr64] = struct{}{}
	r.nodes = append(r.nodes, n)
}

func (r *discoveryRound) result() []*Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := make([]*Node, len(r.nodes))
	copy(nodes, r.nodes)

	return nodes
}

// Discover runs a network discovery round and returns the nodes that answered or
// announced themselves with a node identification during the window.
//
// It issues the ND command and listens to its responses for the discovery window,
// the NT parameter of the radio or DefaultNodeDiscoveryTime when it is unknown.
// Every response updates the node registry like an unsolicited node
// identification. When the window ends the DiscoveryEnded handlers run.
//
// Only one discovery round runs at a time.
func (c *Connection) Discover() ([]*Node, error) {
	if !c.opState.isOpened() {
		return nil, ErrNotOpened
	}
	if !c.discovering.CompareAndSwap(false, true) {
		return nil, ErrDiscoveryInProgress
	}
	defer c.discovering.Store(false)

	c.metrics.incDiscoveryCount()

	window := c.Parameters().NodeDiscoveryTime
	if window <= 0 {
		window = DefaultNodeDiscoveryTime
	}
	deadline := time.Now().Add(window)
	ctx := c.runContext()

	cmd, _ := frame.NewATCommand("ND", nil)
	round := &discoveryRound{seen: make(map[frame.Address64]struct{})}
	req := &request{
		cmds:     []frame.Command{cmd},
		listener: func(f frame.ParsedFrame) { c.foldDiscoveryResponse(f, round) },
	}

	c.round.Store(round)
	defer c.round.CompareAndSwap(round, nil)

	c.logger.Debug("xbee: discovery started", "window", window)

	res, err := c.issue(req)
	key := pendingKey{typ: frame.TypeATCommandResponse, id: res.frameID}
	defer c.listeners.Delete(key)

	// nodes may answer after the first response times out
	if err != nil && !errors.Is(err, ErrCommandTimeout) {
		return nil, err
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return round.result(), ErrConnClosed
	}

	c.listeners.Delete(key)
	c.round.CompareAndSwap(round, nil)
	nodes := round.result()
	c.logger.Info("xbee: discovery ended", "nodeCount", len(nodes))
	c.emitDiscoveryEnded(nodes)

	return nodes, nil
}

// foldDiscoveryResponse runs on the read loop for every ND response.
func (c *Connection) foldDiscoveryResponse(f frame.ParsedFrame, round *discoveryRound) {
	r, ok := f.(*frame.ATCommandResponse)
	if !ok || r.Status != frame.CommandOK || len(r.Data) == 0 {
		return
	}

	ni, err := frame.ParseNodeIdentification(r.Data)
	if err != nil {
		c.metrics.incFrameErrCount()
		c.logger.Warn("xbee: invalid discovery response", "frameID", r.ID, "error", err)

		return
	}

	round.add(c.foldIdentification(ni))
}
