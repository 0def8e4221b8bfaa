package apiclient

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records backend call latency
type Metrics struct {
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewMetrics registers backend client metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blogfront",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the blog backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blogfront",
			Subsystem: "backend",
			Name:      "requests_in_flight",
			Help:      "Requests to the blog backend awaiting a response.",
		}),
	}
	reg.MustRegister(m.duration, m.inflight)
	return m
}

// WithMetrics instruments the client's transport
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		if m == nil {
			return
		}
		hc := *c.httpClient
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc.Transport = promhttp.InstrumentRoundTripperInFlight(m.inflight,
			promhttp.InstrumentRoundTripperDuration(m.duration, next))
		c.httpClient = &hc
	}
}
