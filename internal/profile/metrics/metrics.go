package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the profile registry.
type Metrics struct {
	ProfilesRegistered prometheus.Counter
	ProfileIDRetries   prometheus.Counter
	PremiumRequests    prometheus.Counter
	PremiumApprovals   prometheus.Counter
	RegisterDuration   prometheus.Histogram
	ListDuration       prometheus.Histogram
}

// New registers the profile metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProfilesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_profiles_registered_total",
			Help: "Total number of biodata profiles registered",
		}),
		ProfileIDRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_profile_id_allocation_retries_total",
			Help: "Profile ids drawn again because the previous one was already stored",
		}),
		PremiumRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_profile_premium_requests_total",
			Help: "Total number of profile premium requests",
		}),
		PremiumApprovals: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_profile_premium_approvals_total",
			Help: "Total number of profile premium approvals",
		}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rishta_profile_register_duration_seconds",
			Help:    "Duration of profile registration including id allocation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rishta_profile_list_duration_seconds",
			Help:    "Duration of paginated profile listings",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	m.ProfilesRegistered.Inc()
}

func (m *Metrics) IncrementIDRetry() {
	m.ProfileIDRetries.Inc()
}

func (m *Metrics) IncrementPremiumRequested() {
	m.PremiumRequests.Inc()
}

func (m *Metrics) IncrementPremiumApproved() {
	m.PremiumApprovals.Inc()
}

func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
