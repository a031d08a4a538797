package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics holds the form service's Prometheus metrics.
type Metrics struct {
	SessionsCreated  prometheus.Counter
	SessionsExpired  prometheus.Counter
	ActiveSessions   prometheus.Gauge
	FieldChanges     *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_sessions_created_total",
			Help: "Total number of form sessions created",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_sessions_expired_total",
			Help: "Total number of idle form sessions removed by the sweeper",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signup_active_sessions",
			Help: "Current number of live form sessions",
		}),
		FieldChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_field_changes_total",
			Help: "Field change events by field",
		}, []string{"field"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Form submissions by outcome",
		}, []string{"outcome"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_validation_errors_total",
			Help: "Field-level errors reported on submit, by field",
		}, []string{"field"}),
	}
}

func (m *Metrics) IncrementSessionsCreated() {
	m.SessionsCreated.Inc()
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionsRemoved(expired bool, count int) {
	m.ActiveSessions.Sub(float64(count))
	if expired {
		m.SessionsExpired.Add(float64(count))
	}
}

func (m *Metrics) IncrementFieldChange(field string) {
	m.FieldChanges.WithLabelValues(field).Inc()
}

// ObserveSubmission records one submit and the fields that blocked it.
func (m *Metrics) ObserveSubmission(accepted bool, errorFields []string) {
	if accepted {
		m.Submissions.WithLabelValues(OutcomeAccepted).Inc()
		return
	}
	m.Submissions.WithLabelValues(OutcomeRejected).Inc()
	for _, field := range errorFields {
		m.ValidationErrors.WithLabelValues(field).Inc()
	}
}
