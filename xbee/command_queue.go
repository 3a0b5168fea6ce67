package xbee

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/internal/pool"
	"github.com/arloliu/go-xbee/internal/task"
)

// pendingKey correlates a response with its command.
type pendingKey struct {
	typ frame.FrameType
	id  byte
}

// pendingCommand is a command frame waiting for its response. Whoever removes it
// from the pending map, the dispatcher or the deadline, decides its outcome.
type pendingCommand struct {
	resp chan frame.ParsedFrame
}

// request is one entry of the command queue. Its frames are written in order, each
// after the previous one resolved, and the request stops at the first error.
type request struct {
	cmds    []frame.Command
	timeout time.Duration

	// noResponse writes the frames with frame id 0 and does not wait.
	noResponse bool

	// listener receives every response correlated with the first frame, including
	// the ones that arrive after it resolved, until it is removed from the
	// listener map.
	listener func(frame.ParsedFrame)

	done chan requestResult
}

type requestResult struct {
	responses []frame.ParsedFrame
	// frameID is the id of the first frame.
	frameID byte
	err     error
}

// issue queues req and blocks until the queue loop resolved it.
func (c *Connection) issue(req *request) (requestResult, error) {
	if !c.opState.isOpened() {
		return requestResult{}, ErrNotOpened
	}
	if req.timeout == 0 {
		req.timeout = c.cfg.commandTimeout
	}

	ctx := c.runContext()
	req.done = make(chan requestResult, 1)
	c.enqueue(req)

	select {
	case res := <-req.done:
		return res, res.err
	case <-ctx.Done():
		return requestResult{}, ErrConnClosed
	}
}

// command issues a single frame and returns its response.
func (c *Connection) command(cmd frame.Command) (frame.ParsedFrame, error) {
	res, err := c.issue(&request{cmds: []frame.Command{cmd}})
	if err != nil {
		return nil, err
	}

	return res.responses[0], nil
}

// Transmit writes cmd with frame id 0, so that the radio sends no response.
// It is queued behind the commands issued before it.
func (c *Connection) Transmit(cmd frame.Command) error {
	_, err := c.issue(&request{cmds: []frame.Command{cmd}, noResponse: true})
	return err
}

func (c *Connection) enqueue(req *request) {
	c.reqMu.Lock()
	c.requests.Enqueue(req)
	c.reqMu.Unlock()
	c.metrics.incCommandQueueLength()

	select {
	case c.reqNotify <- struct{}{}:
	default:
	}
}

func (c *Connection) dequeue() (*request, bool) {
	c.reqMu.Lock()
	req, ok := c.requests.Dequeue()
	c.reqMu.Unlock()

	if ok {
		c.metrics.decCommandQueueLength()
	}

	return req, ok
}

// failQueued resolves every queued request with err.
func (c *Connection) failQueued(err error) {
	c.reqMu.Lock()
	reqs := c.requests.Reset()
	c.reqMu.Unlock()

	for _, req := range reqs {
		c.metrics.decCommandQueueLength()
		req.done <- requestResult{err: err}
	}
}

// queueLoopTask processes the queued requests one at a time.
func (c *Connection) queueLoopTask(ctx context.Context) task.Func {
	return func() bool {
		req, ok := c.dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return false
			case <-c.reqNotify:
				return true
			}
		}

		req.done <- c.process(ctx, req)

		return ctx.Err() == nil
	}
}

func (c *Connection) process(ctx context.Context, req *request) requestResult {
	var res requestResult

	for i, cmd := range req.cmds {
		if req.noResponse {
			if err := c.writeCommand(cmd, frame.NoResponseFrameID); err != nil {
				res.err = err
				return res
			}

			continue
		}

		id := c.frameIDs.Next()
		key := pendingKey{typ: cmd.ResponseType(), id: id}
		if i == 0 {
			res.frameID = id
			if req.listener != nil {
				c.listeners.Store(key, req.listener)
			}
		}

		pc := &pendingCommand{resp: make(chan frame.ParsedFrame, 1)}
		c.pending.Store(key, pc)

		if err := c.writeCommand(cmd, id); err != nil {
			c.pending.Delete(key)
			c.metrics.incCommandErrCount()
			res.err = err

			return res
		}

		f, err := c.awaitResponse(ctx, key, pc, req.timeout)
		if err != nil {
			res.err = fmt.Errorf("%w: %s (frame id %d)", err, describeCommand(cmd), id)
			return res
		}
		res.responses = append(res.responses, f)

		if err := responseError(f); err != nil {
			c.metrics.incCommandErrCount()
			res.err = err

			return res
		}
		c.metrics.incCommandOKCount()
	}

	return res
}

// awaitResponse waits for the response of a written command until timeout.
func (c *Connection) awaitResponse(ctx context.Context, key pendingKey, pc *pendingCommand, timeout time.Duration) (frame.ParsedFrame, error) {
	c.metrics.incCommandInflightCount()
	defer c.metrics.decCommandInflightCount()

	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case f := <-pc.resp:
		return f, nil

	case <-timer.C:
		if _, ok := c.pending.LoadAndDelete(key); ok {
			c.metrics.incCommandTimeoutCount()
			c.logger.Debug("xbee: command timeout", "frameType", key.typ, "frameID", key.id, "timeout", timeout)

			return nil, ErrCommandTimeout
		}

		// the dispatcher removed the entry first and has delivered the response
		return <-pc.resp, nil

	case <-ctx.Done():
		c.pending.Delete(key)
		return nil, ErrConnClosed
	}
}

func (c *Connection) writeCommand(cmd frame.Command, id byte) error {
	wire, err := frame.Encode(cmd, id, c.cfg.apiMode)
	if err != nil {
		return fmt.Errorf("xbee: encode %s: %w", describeCommand(cmd), err)
	}

	t := c.getTransport()
	if t == nil {
		return ErrConnClosed
	}

	if _, err := t.Write(wire); err != nil {
		terr := &TransportError{Op: "write", Err: err}
		c.fail(terr)

		return terr
	}

	c.metrics.incFrameSendCount()
	c.logger.Debug("xbee: frame sent", "frameType", cmd.Type(), "frameID", id, "length", len(wire))

	return nil
}

// responseError translates the status embedded in a response.
func responseError(f frame.ParsedFrame) error {
	switch r := f.(type) {
	case *frame.ATCommandResponse:
		if r.Status != frame.CommandOK {
			return &CommandStatusError{Command: r.Command, Status: r.Status, Data: r.Data}
		}
	case *frame.RemoteCommandResponse:
		if r.Status != frame.CommandOK {
			return &CommandStatusError{Command: r.Command, Status: r.Status, Data: r.Data}
		}
	case *frame.TransmitStatus:
		if r.DeliveryStatus != frame.DeliverySuccess {
			return &DeliveryStatusError{
				Status:          r.DeliveryStatus,
				RetryCount:      r.RetryCount,
				DiscoveryStatus: r.DiscoveryStatus,
			}
		}
	}

	return nil
}

func describeCommand(cmd frame.Command) string {
	switch v := cmd.(type) {
	case *frame.ATCommand:
		return "AT " + v.Command
	case *frame.RemoteATCommand:
		return fmt.Sprintf("remote AT %s to %s", v.Command, v.Dest64)
	case *frame.TransmitRequest:
		return fmt.Sprintf("transmit of %d bytes to %s", len(v.Data), v.Dest64)
	default:
		return cmd.Type().String()
	}
}
