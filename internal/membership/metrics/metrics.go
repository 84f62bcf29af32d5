package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks membership state transitions.
type Metrics struct {
	AccountsCreated  prometheus.Counter
	PremiumRequests  prometheus.Counter
	PremiumApprovals prometheus.Counter
	AdminGrants      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_accounts_created_total",
			Help: "Total number of membership accounts created",
		}),
		PremiumRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_membership_premium_requests_total",
			Help: "Total number of member to premium-requested transitions",
		}),
		PremiumApprovals: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_membership_premium_approvals_total",
			Help: "Total number of premium-requested to premium transitions",
		}),
		AdminGrants: factory.NewCounter(prometheus.CounterOpts{
			Name: "rishta_membership_admin_grants_total",
			Help: "Total number of accounts elevated to admin",
		}),
	}
}

func (m *Metrics) IncrementAccountsCreated() {
	m.AccountsCreated.Inc()
}

func (m *Metrics) IncrementPremiumRequested() {
	m.PremiumRequests.Inc()
}

func (m *Metrics) IncrementPremiumApproved() {
	m.PremiumApprovals.Inc()
}

func (m *Metrics) IncrementAdminGranted() {
	m.AdminGrants.Inc()
}
