package frame

// DefaultFrameIDSeed is the initial value of a new FrameIDAllocator.
// The first allocated ID is DefaultFrameIDSeed+1.
const DefaultFrameIDSeed byte = 0x30

// maxFrameID is the largest frame ID handed out; the counter wraps to 1 after it.
const maxFrameID byte = 0xFE

// FrameIDAllocator hands out frame IDs for commands that expect a response.
//
// IDs cycle through 1..254. 0 is never returned because it tells the module not to
// send a response.
//
// FrameIDAllocator is NOT goroutine-safe. Each connection owns one allocator and only
// its command queue loop calls Next.
type FrameIDAllocator struct {
	last byte
}

// NewFrameIDAllocator creates an allocator starting after seed.
func NewFrameIDAllocator(seed byte) *FrameIDAllocator {
	return &FrameIDAllocator{last: seed}
}

// Next returns the next frame ID.
func (a *FrameIDAllocator) Next() byte {
	if a.last >= maxFrameID {
		a.last = 1
	} else {
		a.last++
	}

	return a.last
}

// Last returns the most recently allocated ID, or the seed if none was allocated yet.
func (a *FrameIDAllocator) Last() byte {
	return a.last
}
