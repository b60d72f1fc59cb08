package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the wallet identity subsystem.
type Metrics struct {
	ProfilesRegistered   prometheus.Counter
	WalletRebinds        prometheus.Counter
	VerificationToggles  *prometheus.CounterVec
	RegistrationFailures *prometheus.CounterVec
	CompensationFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProfilesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexid_profiles_registered_total",
			Help: "Total number of profiles registered",
		}),
		WalletRebinds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexid_wallet_rebinds_total",
			Help: "Total number of wallet address rebinds",
		}),
		VerificationToggles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexid_wallet_verification_toggles_total",
			Help: "Total number of wallet verification state changes",
		}, []string{"to"}),
		RegistrationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexid_registration_failures_total",
			Help: "Total number of failed registrations by stage",
		}, []string{"stage"}),
		CompensationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexid_compensation_failures_total",
			Help: "Total number of failed identity compensations (orphaned identities)",
		}),
	}
}

func (m *Metrics) IncrementProfilesRegistered() {
	if m != nil {
		m.ProfilesRegistered.Inc()
	}
}

func (m *Metrics) IncrementWalletRebinds() {
	if m != nil {
		m.WalletRebinds.Inc()
	}
}

func (m *Metrics) IncrementVerificationToggles(verified bool) {
	if m == nil {
		return
	}
	to := "unverified"
	if verified {
		to = "verified"
	}
	m.VerificationToggles.WithLabelValues(to).Inc()
}

func (m *Metrics) IncrementRegistrationFailures(stage string) {
	if m != nil {
		m.RegistrationFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) IncrementCompensationFailures() {
	if m != nil {
		m.CompensationFailures.Inc()
	}
}
