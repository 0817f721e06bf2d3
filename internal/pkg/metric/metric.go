// Package metric defines the prometheus collectors for the control link.
package metric

import "github.com/prometheus/client_golang/prometheus"

// LinkMetrics contains the control-link metrics maintained by the session loop.
type LinkMetrics struct {
	DatagramsSent     prometheus.Counter
	DatagramsReceived prometheus.Counter
	DecodeFailures    prometheus.Counter
	UnknownResponses  prometheus.Counter
	Disconnects       prometheus.Counter
	ConnectionState   prometheus.Gauge
}

// NewLinkMetrics creates the link metrics set.
func NewLinkMetrics() *LinkMetrics {
	return &LinkMetrics{
		DatagramsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "datagrams_sent_total",
			Help:      "Total number of datagrams sent to the engine",
		}),
		DatagramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "datagrams_received_total",
			Help:      "Total number of datagrams received from the engine",
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "decode_failures_total",
			Help:      "Total number of received datagrams that failed to decode",
		}),
		UnknownResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "unknown_responses_total",
			Help:      "Total number of well-formed responses with an unrecognized tag",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "disconnects_total",
			Help:      "Total number of sessions terminated by timeout or transport error",
		}),
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mvn",
			Subsystem: "link",
			Name:      "connection_state",
			Help:      "Connection state (0=disconnected, 1=connecting, 2=connected, 3=ready, 4=disconnecting)",
		}),
	}
}

// Register registers all link metrics with the given registerer.
func (m *LinkMetrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.DatagramsSent,
		m.DatagramsReceived,
		m.DecodeFailures,
		m.UnknownResponses,
		m.Disconnects,
		m.ConnectionState,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
