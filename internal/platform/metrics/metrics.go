// Package metrics registers the Prometheus metrics for the gatekeeper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gatekeeper/internal/gate/models"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Verifications     prometheus.Counter
	VerifyOutcomes    *prometheus.CounterVec
	ModeratedMessages prometheus.Counter
	NoticeDeletions   prometheus.Counter
}

// New creates and registers all metrics against reg. Tests pass a fresh
// registry so suites never collide on registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_verifications_total",
			Help: "Total number of successful verifications since process start",
		}),
		VerifyOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_verify_outcomes_total",
			Help: "Verification flow terminations by audit outcome",
		}, []string{"outcome"}),
		ModeratedMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_moderated_messages_total",
			Help: "Non-admin messages deleted from the entry group",
		}),
		NoticeDeletions: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_notice_deletions_total",
			Help: "Transient notices deleted after their TTL",
		}),
	}
}

// ObserveOutcome increments the per-outcome verification counter.
func (m *Metrics) ObserveOutcome(outcome models.Outcome) {
	m.VerifyOutcomes.WithLabelValues(string(outcome)).Inc()
}
