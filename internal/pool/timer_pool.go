// Package pool provides pooled timers for command response deadlines.
package pool

import (
	"sync"
	"time"
)

var timerPool = sync.Pool{
	New: func() any {
		t := time.NewTimer(time.Hour)
		t.Stop()

		return t
	},
}

// GetTimer returns a stopped timer from the pool, armed to fire after d.
//
// Return the timer with PutTimer once the caller has stopped selecting on it.
func GetTimer(d time.Duration) *time.Timer {
	t, _ := timerPool.Get().(*time.Timer)
	// Since Go 1.23 Reset discards any stale value in t.C.
	t.Reset(d)

	return t
}

// PutTimer stops t and returns it to the pool.
//
// t cannot be accessed after returning to the pool.
func PutTimer(t *time.Timer) {
	t.Stop()
	timerPool.Put(t)
}
