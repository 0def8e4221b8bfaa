package session

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts session transitions
type Metrics struct {
	transitions *prometheus.CounterVec
	superseded  prometheus.Counter
}

// NewMetrics registers session metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogfront",
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session state changes by resulting state and cause.",
		}, []string{"state", "cause"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blogfront",
			Subsystem: "session",
			Name:      "superseded_total",
			Help:      "Login or registration results discarded after a sign-out.",
		}),
	}
	reg.MustRegister(m.transitions, m.superseded)
	return m
}

func (m *Metrics) transition(st State, cause string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(st.String(), cause).Inc()
}

func (m *Metrics) supersede() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}
