package xbee

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics of a Connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc, see
// package promxbee.
type ConnectionMetrics struct {
	// FrameSendCount indicates the number of frames written to the radio.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of valid frames received.
	FrameRecvCount atomic.Uint64
	// FrameErrCount indicates the number of received frames dropped for a bad
	// checksum, length or content.
	FrameErrCount atomic.Uint64
	// UnsupportedFrameCount indicates the number of received frames of a type
	// without parser.
	UnsupportedFrameCount atomic.Uint64
	// LateResponseCount indicates the number of responses that arrived after their
	// command resolved.
	LateResponseCount atomic.Uint64

	// CommandOKCount indicates the number of command frames answered with success.
	CommandOKCount atomic.Uint64
	// CommandErrCount indicates the number of command frames answered with a failure
	// status, or that failed to be written.
	CommandErrCount atomic.Uint64
	// CommandTimeoutCount indicates the number of command frames without response.
	CommandTimeoutCount atomic.Uint64
	// CommandInflightCount indicates the number of command frames waiting for a response.
	CommandInflightCount atomic.Int64
	// CommandQueueLength indicates the number of requests waiting in the command queue.
	CommandQueueLength atomic.Int64

	// NodeCount indicates the number of known nodes.
	NodeCount atomic.Int64
	// NodeConnectedCount indicates the number of nodes currently connected.
	NodeConnectedCount atomic.Int64
	// DiscoveryCount indicates the number of discovery rounds run.
	DiscoveryCount atomic.Uint64
}

func (m *ConnectionMetrics) incFrameSendCount() {
	m.FrameSendCount.Add(1)
}

func (m *ConnectionMetrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

func (m *ConnectionMetrics) incFrameErrCount() {
	m.FrameErrCount.Add(1)
}

func (m *ConnectionMetrics) incUnsupportedFrameCount() {
	m.UnsupportedFrameCount.Add(1)
}

func (m *ConnectionMetrics) incLateResponseCount() {
	m.LateResponseCount.Add(1)
}

func (m *ConnectionMetrics) incCommandOKCount() {
	m.CommandOKCount.Add(1)
}

func (m *ConnectionMetrics) incCommandErrCount() {
	m.CommandErrCount.Add(1)
}

func (m *ConnectionMetrics) incCommandTimeoutCount() {
	m.CommandTimeoutCount.Add(1)
}

func (m *ConnectionMetrics) incCommandInflightCount() {
	m.CommandInflightCount.Add(1)
}

func (m *ConnectionMetrics) decCommandInflightCount() {
	m.CommandInflightCount.Add(-1)
}

func (m *ConnectionMetrics) incCommandQueueLength() {
	m.CommandQueueLength.Add(1)
}

func (m *ConnectionMetrics) decCommandQueueLength() {
	m.CommandQueueLength.Add(-1)
}

func (m *ConnectionMetrics) incNodeCount() {
	m.NodeCount.Add(1)
}

func (m *ConnectionMetrics) incNodeConnectedCount() {
	m.NodeConnectedCount.Add(1)
}

func (m *ConnectionMetrics) decNodeConnectedCount() {
	m.NodeConnectedCount.Add(-1)
}

func (m *ConnectionMetrics) incDiscoveryCount() {
	m.DiscoveryCount.Add(1)
}
