// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aisfwd"

// Metrics holds the relay's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	connectionUp    prometheus.Gauge
	connects        prometheus.Counter
	connectFailures prometheus.Counter
	disconnects     *prometheus.CounterVec
	probes          prometheus.Counter
	bytesReceived   prometheus.Counter
	lines           *prometheus.CounterVec
	forwardErrors   prometheus.Counter
	frameOverflows  prometheus.Counter
	notifications   *prometheus.CounterVec
	notifyDropped   prometheus.Counter
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connectionUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_up",
			Help:      "1 while the source connection is established",
		}),
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connects_total",
			Help:      "Successful source connects",
		}),
		connectFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_failures_total",
			Help:      "Failed source connect attempts",
		}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Source connections torn down, by cause",
		}, []string{"cause"}),
		probes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Liveness probes performed",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Bytes read from the source",
		}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Complete lines extracted from the source, by result",
		}, []string{"result"}),
		forwardErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_errors_total",
			Help:      "Datagram sends that failed",
		}),
		frameOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_overflows_total",
			Help:      "Undelimited fragments discarded for exceeding the pending limit",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications emitted, by kind",
		}, []string{"kind"}),
		notifyDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notifications dropped because the dispatch queue was full",
		}),
	}

	m.registry.MustRegister(
		m.connectionUp,
		m.connects,
		m.connectFailures,
		m.disconnects,
		m.probes,
		m.bytesReceived,
		m.lines,
		m.forwardErrors,
		m.frameOverflows,
		m.notifications,
		m.notifyDropped,
	)
	return m
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SetConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.connectionUp.Set(1)
		return
	}
	m.connectionUp.Set(0)
}

func (m *Metrics) Connected() {
	if m == nil {
		return
	}
	m.connects.Inc()
}

func (m *Metrics) ConnectFailed() {
	if m == nil {
		return
	}
	m.connectFailures.Inc()
}

func (m *Metrics) Disconnected(cause string) {
	if m == nil {
		return
	}
	m.disconnects.WithLabelValues(cause).Inc()
}

func (m *Metrics) Probed() {
	if m == nil {
		return
	}
	m.probes.Inc()
}

func (m *Metrics) Received(n int) {
	if m == nil {
		return
	}
	m.bytesReceived.Add(float64(n))
}

func (m *Metrics) Forwarded() {
	if m == nil {
		return
	}
	m.lines.WithLabelValues("forwarded").Inc()
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.lines.WithLabelValues("dropped").Inc()
}

func (m *Metrics) ForwardFailed() {
	if m == nil {
		return
	}
	m.forwardErrors.Inc()
}

func (m *Metrics) FrameOverflow() {
	if m == nil {
		return
	}
	m.frameOverflows.Inc()
}

func (m *Metrics) Notified(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.notifyDropped.Inc()
}
