package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the contact request ledger.
type Metrics struct {
	Submitted prometheus.Counter
	Approved  prometheus.Counter
	Deleted   prometheus.Counter
	Pending   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_contact_requests_submitted_total",
			Help: "Total number of contact requests submitted",
		}),
		Approved: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_contact_requests_approved_total",
			Help: "Total number of contact requests approved",
		}),
		Deleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_contact_requests_deleted_total",
			Help: "Total number of contact requests removed by admins",
		}),
		Pending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rishta_contact_requests_pending",
			Help: "Pending contact requests seen by the last full listing",
		}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	m.Submitted.Inc()
}

func (m *Metrics) IncrementApproved() {
	m.Approved.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.Deleted.Inc()
}

func (m *Metrics) SetPending(n int) {
	m.Pending.Set(float64(n))
}
