package xbee

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-xbee/frame"
	"github.com/arloliu/go-xbee/internal/queue"
	"github.com/arloliu/go-xbee/internal/task"
	"github.com/arloliu/go-xbee/logger"
)

// Connection is the connection to a local radio.
//
// A Connection can be opened again after Close. Known nodes, handlers and metrics
// survive a reopen.
type Connection struct {
	pctx    context.Context
	cfg     *ConnectionConfig
	logger  logger.Logger
	opState atomicOpState
	taskMgr *task.Manager

	// runCtx is done once the current open generation starts closing.
	ctxMu  sync.RWMutex
	runCtx context.Context

	transportMu sync.RWMutex
	transport   Transport

	// assembler is owned by the read loop.
	assembler *frame.StreamAssembler
	// frameIDs is owned by the command queue loop.
	frameIDs *frame.FrameIDAllocator

	reqMu     sync.Mutex
	requests  queue.Queue[*request]
	reqNotify chan struct{}

	pending   *xsync.MapOf[pendingKey, *pendingCommand]
	listeners *xsync.MapOf[pendingKey, func(frame.ParsedFrame)]

	nodes       *xsync.MapOf[frame.Address64, *Node]
	discovering atomic.Bool
	// round collects the nodes heard during the running discovery window.
	round atomic.Pointer[discoveryRound]

	evMu     sync.Mutex
	events   queue.Queue[func()]
	evNotify chan struct{}
	handlers handlerSet

	paramsMu sync.RWMutex
	params   Parameters

	errMu sync.Mutex
	err   error

	metrics ConnectionMetrics
}

// NewConnection creates a Connection with the given context and configuration.
//
// ctx is the parent of the connection goroutines. The connection is closed until
// Open is called.
func NewConnection(ctx context.Context, cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, errors.New("xbee: connection config is nil")
	}

	c := &Connection{
		pctx:      ctx,
		cfg:       cfg,
		logger:    cfg.logger.With("port", cfg.portName),
		requests:  queue.NewSliceQueue[*request](8),
		reqNotify: make(chan struct{}, 1),
		pending:   xsync.NewMapOf[pendingKey, *pendingCommand](),
		listeners: xsync.NewMapOf[pendingKey, func(frame.ParsedFrame)](),
		nodes:     xsync.NewMapOf[frame.Address64, *Node](),
		events:    queue.NewSliceQueue[func()](cfg.eventQueueSize),
		evNotify:  make(chan struct{}, 1),
	}
	c.taskMgr = task.NewManager(ctx, c.logger)

	registry := cfg.registry
	if registry == nil {
		registry = frame.DefaultRegistry()
	}
	c.assembler = frame.NewStreamAssembler(cfg.apiMode,
		frame.WithRegistry(registry),
		frame.WithErrorHandler(c.onFrameError),
	)

	closed, cancel := context.WithCancel(ctx)
	cancel()
	c.runCtx = closed
	c.opState.toClosed()

	return c, nil
}

// Open opens the transport, starts the connection goroutines and, unless disabled
// with WithReadParametersOnOpen, reads the radio parameters.
func (c *Connection) Open() error {
	if !c.opState.toOpening() {
		if c.opState.isOpened() {
			return ErrAlreadyOpened
		}

		return fmt.Errorf("xbee: cannot open connection in %s state", c.opState.get())
	}

	t, err := c.cfg.opener(c.cfg)
	if err != nil {
		c.opState.toClosed()
		return &TransportError{Op: "open", Err: err}
	}

	c.setTransport(t)
	c.assembler.Reset()
	c.frameIDs = frame.NewFrameIDAllocator(c.cfg.frameIDSeed)
	c.setErr(nil)

	ctx := c.taskMgr.Context()
	c.ctxMu.Lock()
	c.runCtx = ctx
	c.ctxMu.Unlock()

	if err := c.startTasks(ctx, t); err != nil {
		_ = c.Close()
		return err
	}

	if !c.opState.toOpened() {
		// the transport failed while opening
		if err := c.Err(); err != nil {
			return err
		}

		return ErrConnClosed
	}
	c.rearmHeartbeats()
	c.logger.Info("xbee: connection opened", "baudRate", c.cfg.baudRate, "apiMode", c.cfg.apiMode)

	if c.cfg.readParams {
		if _, err := c.ReadParameters(); err != nil {
			_ = c.Close()
			return fmt.Errorf("xbee: read parameters: %w", err)
		}
	}

	return nil
}

func (c *Connection) startTasks(ctx context.Context, t Transport) error {
	if err := c.taskMgr.Start("eventLoop", c.eventLoopTask(ctx)); err != nil {
		return err
	}
	if err := c.taskMgr.Start("queueLoop", c.queueLoopTask(ctx)); err != nil {
		return err
	}

	return c.taskMgr.Start("readLoop", c.readLoopTask(ctx, t))
}

// Close closes the transport and stops the connection goroutines.
//
// Commands waiting for a response or queued return ErrConnClosed. Close on a
// closed connection does nothing.
func (c *Connection) Close() error {
	if !c.opState.toClosing() {
		return nil
	}

	c.logger.Debug("xbee: closing connection")

	// cancel first so that waiting commands and the loops observe the shutdown
	c.taskMgr.Stop()

	var closeErr error
	if t := c.getTransport(); t != nil {
		if err := t.Close(); err != nil {
			closeErr = &TransportError{Op: "close", Err: err}
		}
	}

	if !c.taskMgr.WaitTimeout(c.cfg.closeTimeout) {
		c.logger.Warn("xbee: connection goroutines did not stop in time", "closeTimeout", c.cfg.closeTimeout)
	}

	c.failQueued(ErrConnClosed)
	c.pending.Clear()
	c.listeners.Clear()
	c.drainEvents()
	c.stopHeartbeats()
	c.setTransport(nil)

	c.opState.toClosed()
	c.logger.Info("xbee: connection closed")

	return closeErr
}

// IsOpened reports whether the connection is open.
func (c *Connection) IsOpened() bool {
	return c.opState.isOpened()
}

// Err returns the transport error that closed the connection, or nil.
func (c *Connection) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	return c.err
}

// GetMetrics returns the metrics of the connection.
func (c *Connection) GetMetrics() *ConnectionMetrics {
	return &c.metrics
}

// Config returns the configuration of the connection.
func (c *Connection) Config() *ConnectionConfig {
	return c.cfg
}

func (c *Connection) setErr(err error) {
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
}

// fail records a fatal transport error and closes the connection. It is called
// from the connection goroutines, so Close runs in its own goroutine.
func (c *Connection) fail(err error) {
	c.errMu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.errMu.Unlock()

	c.logger.Error("xbee: transport failed, closing connection", "error", err)
	go func() { _ = c.Close() }()
}

func (c *Connection) getTransport() Transport {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()

	return c.transport
}

func (c *Connection) setTransport(t Transport) {
	c.transportMu.Lock()
	c.transport = t
	c.transportMu.Unlock()
}

// readLoopTask reads the transport and dispatches every complete frame. The
// assembler and the dispatcher only run on this goroutine.
func (c *Connection) readLoopTask(ctx context.Context, t Transport) task.Func {
	buf := make([]byte, c.cfg.readBufferSize)

	return func() bool {
		n, err := t.Read(buf)
		if n > 0 {
			c.assembler.FeedFunc(buf[:n], c.dispatch)
		}

		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			c.fail(&TransportError{Op: "read", Err: err})

			return false
		}

		return true
	}
}

func (c *Connection) onFrameError(err error) {
	c.metrics.incFrameErrCount()
	c.logger.Warn("xbee: frame dropped", "error", err)
}
