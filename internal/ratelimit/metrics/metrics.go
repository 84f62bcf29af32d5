package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitRejected    *prometheus.CounterVec
	RateLimitDegraded    prometheus.Counter
	RateLimitCircuitOpen prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rishta_ratelimit_rejected_total",
			Help: "Total number of requests rejected by the rate limiter",
		}, []string{"class"}),
		RateLimitDegraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_ratelimit_degraded_checks_total",
			Help: "Total number of rate limit checks answered by the in-memory fallback",
		}),
		RateLimitCircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rishta_ratelimit_circuit_open",
			Help: "1 while the primary rate limit store is bypassed",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	m.RateLimitRejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementDegraded() {
	m.RateLimitDegraded.Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if open {
		m.RateLimitCircuitOpen.Set(1)
		return
	}
	m.RateLimitCircuitOpen.Set(0)
}
