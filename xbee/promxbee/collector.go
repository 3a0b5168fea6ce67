// Package promxbee exports the metrics of an xbee.Connection to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(promxbee.NewCollector(conn.GetMetrics(), prometheus.Labels{"port": "/dev/ttyUSB0"}))
package promxbee

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/go-xbee/xbee"
)

const namespace = "xbee"

// Collector reads a ConnectionMetrics on every scrape.
type Collector struct {
	metrics []prometheus.Collector
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over m. The labels are added to every metric.
func NewCollector(m *xbee.ConnectionMetrics, labels prometheus.Labels) *Collector {
	counter := func(subsystem, name, help string, fn func() uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(fn()) })
	}
	gauge := func(subsystem, name, help string, fn func() int64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(fn()) })
	}

	return &Collector{metrics: []prometheus.Collector{
		counter("frame", "sent_total", "Frames written to the radio.", m.FrameSendCount.Load),
		counter("frame", "received_total", "Valid frames received from the radio.", m.FrameRecvCount.Load),
		counter("frame", "errors_total", "Received frames dropped for a bad checksum, length or content.", m.FrameErrCount.Load),
		counter("frame", "unsupported_total", "Received frames of a type without parser.", m.UnsupportedFrameCount.Load),
		counter("frame", "late_responses_total", "Responses received after their command resolved.", m.LateResponseCount.Load),
		counter("command", "ok_total", "Command frames answered with success.", m.CommandOKCount.Load),
		counter("command", "errors_total", "Command frames answered with a failure status or not written.", m.CommandErrCount.Load),
		counter("command", "timeouts_total", "Command frames without response.", m.CommandTimeoutCount.Load),
		gauge("command", "inflight", "Command frames waiting for a response.", m.CommandInflightCount.Load),
		gauge("command", "queue_length", "Requests waiting in the command queue.", m.CommandQueueLength.Load),
		gauge("node", "known", "Known nodes.", m.NodeCount.Load),
		gauge("node", "connected", "Nodes currently connected.", m.NodeConnectedCount.Load),
		counter("node", "discoveries_total", "Discovery rounds run.", m.DiscoveryCount.Load),
	}}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		m.Collect(ch)
	}
}
