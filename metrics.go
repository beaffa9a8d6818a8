package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts executions by tier and promotions across any number of
// engines. A nil *Metrics records nothing.
type Metrics struct {
	executions *prometheus.CounterVec
	promotions prometheus.Counter
}

// NewMetrics creates metrics registered with reg, if non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "executions_total",
			Help:      "Program executions by the tier that ran them.",
		}, []string{"tier"}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "promotions_total",
			Help:      "Programs promoted to a compiled artifact.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.executions, m.promotions)
	}
	return m
}

// WatchCache registers a gauge reporting how many entries cache holds.
func WatchCache(reg prometheus.Registerer, cache *Cache) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "flock",
		Name:      "cache_entries",
		Help:      "Distinct programs held by the compilation cache.",
	}, func() float64 {
		return float64(cache.Len())
	}))
}

func (m *Metrics) observe(t Tier) {
	if m != nil {
		m.executions.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) promoted() {
	if m != nil {
		m.promotions.Inc()
	}
}
