package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters exposed by the service
type Metrics struct {
	RegistrationsTotal  prometheus.Counter
	KYCSubmissionsTotal prometheus.Counter
	KYCReviewsTotal     *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyc_desk_registrations_total",
			Help: "Total number of accounts registered",
		}),
		KYCSubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyc_desk_submissions_total",
			Help: "Total number of KYC records submitted or resubmitted",
		}),
		KYCReviewsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_desk_reviews_total",
			Help: "Total number of KYC review decisions, labelled by outcome",
		}, []string{"decision"}),
	}
}

// IncRegistrations increments the registered-accounts counter
func (m *Metrics) IncRegistrations() {
	m.RegistrationsTotal.Inc()
}

// IncSubmissions increments the KYC submissions counter
func (m *Metrics) IncSubmissions() {
	m.KYCSubmissionsTotal.Inc()
}

// IncReviews increments the review counter for a decision ("APPROVED" or
// "REJECTED")
func (m *Metrics) IncReviews(decision string) {
	m.KYCReviewsTotal.WithLabelValues(decision).Inc()
}
