// Package task manages the goroutines of a connection: the read loop, the
// command queue loop and the event loop.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-xbee/logger"
)

// ErrStopped is returned when a task is started on a stopped Manager.
var ErrStopped = errors.New("task: manager already stopped")

// startTimeout bounds the wait for a task goroutine to report that it runs.
const startTimeout = 5 * time.Second

// Func is the body of a looping task. It returns true to run again, or false to
// end the task.
type Func func() bool

// Manager manages the lifecycle of a group of goroutines.
//
// All tasks share a context derived from the parent context. Stop cancels it,
// and Wait blocks until every task has returned, then prepares a fresh context
// so that the manager can be started again.
//
//	mgr := task.NewManager(ctx, logger)
//	_ = mgr.Start("readLoop", func() bool {
//	    // ... one iteration ...
//	    return true
//	})
//	mgr.Stop()
//	mgr.Wait()
type Manager struct {
	pctx   context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger logger.Logger
	count  atomic.Int32
	mu     sync.RWMutex // protect ctx and cancel
	taskMu sync.RWMutex // protect task creation during Wait()
}

// NewManager creates a Manager using ctx as the parent context.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{pctx: ctx, logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// Context returns the context of the current task generation. It is done once
// Stop is called.
func (mgr *Manager) Context() context.Context {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	return mgr.ctx
}

// Start runs fn in a new goroutine until fn returns false or the manager stops.
func (mgr *Manager) Start(name string, fn Func) error {
	mgr.logger.Debug("task: start", "name", name)

	return mgr.launch(name, func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				mgr.logger.Error("task: panic in task loop", "name", name, "panic", r)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			default:
				if !fn() {
					return
				}
			}
		}
	})
}

// Stop signals all running goroutines.
func (mgr *Manager) Stop() {
	mgr.mu.Lock()
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.mu.Unlock()
}

// Wait waits for all goroutines to terminate, then renews the task context.
func (mgr *Manager) Wait() {
	mgr.taskMu.Lock()
	defer mgr.taskMu.Unlock()

	mgr.wg.Wait()

	mgr.mu.Lock()
	mgr.ctx, mgr.cancel = context.WithCancel(mgr.pctx)
	mgr.mu.Unlock()
}

// WaitTimeout is Wait bounded by d. It returns false if the tasks did not end in
// time; the task context is not renewed in that case.
func (mgr *Manager) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		mgr.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// TaskCount returns the number of currently running goroutines.
func (mgr *Manager) TaskCount() int {
	return int(mgr.count.Load())
}

// launch starts body in a goroutine and waits until it is running.
func (mgr *Manager) launch(name string, body func(ctx context.Context)) error {
	ctx := mgr.Context()
	if ctx.Err() != nil {
		return ErrStopped
	}

	started := make(chan struct{})

	mgr.taskMu.RLock()
	mgr.wg.Add(1)
	go func() {
		defer mgr.wg.Done()

		mgr.count.Add(1)
		defer func() {
			mgr.count.Add(-1)
			mgr.logger.Debug("task: terminated", "name", name, "taskCount", mgr.TaskCount())
		}()

		close(started)
		body(ctx)
	}()
	mgr.taskMu.RUnlock()

	select {
	case <-started:
		return nil
	case <-time.After(startTimeout):
		return fmt.Errorf("task: timeout waiting for %s to start", name)
	}
}
