package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IntentsCreated  prometheus.Counter
	GatewayFailures prometheus.Counter
	GatewayLatency  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IntentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_payment_intents_created_total",
			Help: "Total number of payment intents created",
		}),
		GatewayFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_payment_gateway_failures_total",
			Help: "Total number of failed payment gateway calls",
		}),
		GatewayLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rishta_payment_gateway_duration_seconds",
			Help:    "Latency of payment gateway calls",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementIntentsCreated() {
	m.IntentsCreated.Inc()
}

func (m *Metrics) IncrementGatewayFailures() {
	m.GatewayFailures.Inc()
}

func (m *Metrics) ObserveGatewayLatency(seconds float64) {
	m.GatewayLatency.Observe(seconds)
}
