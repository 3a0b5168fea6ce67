package xbee

import "sync/atomic"

// opState is the lifecycle state of a Connection.
type opState uint32

const (
	stateClosed opState = iota
	stateClosing
	stateOpening
	stateOpened
)

func (s opState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateClosing:
		return "closing"
	case stateOpening:
		return "opening"
	case stateOpened:
		return "opened"
	default:
		return "unknown"
	}
}

// atomicOpState moves a connection through closed -> opening -> opened ->
// closing -> closed with compare-and-swap transitions.
type atomicOpState struct {
	state atomic.Uint32
}

func (st *atomicOpState) get() opState {
	return opState(st.state.Load())
}

func (st *atomicOpState) isOpened() bool {
	return st.get() == stateOpened
}

func (st *atomicOpState) toOpening() bool {
	return st.state.CompareAndSwap(uint32(stateClosed), uint32(stateOpening))
}

func (st *atomicOpState) toOpened() bool {
	return st.state.CompareAndSwap(uint32(stateOpening), uint32(stateOpened))
}

// toClosing accepts an opened or a half opened connection.
func (st *atomicOpState) toClosing() bool {
	if st.state.CompareAndSwap(uint32(stateOpened), uint32(stateClosing)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(stateOpening), uint32(stateClosing))
}

func (st *atomicOpState) toClosed() {
	st.state.Store(uint32(stateClosed))
}
