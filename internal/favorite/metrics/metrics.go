package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Added   prometheus.Counter
	Removed prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Added: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_favorites_added_total",
			Help: "Total number of favorites added",
		}),
		Removed: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_favorites_removed_total",
			Help: "Total number of favorites removed",
		}),
	}
}

func (m *Metrics) IncrementAdded() {
	m.Added.Inc()
}

func (m *Metrics) IncrementRemoved() {
	m.Removed.Inc()
}
