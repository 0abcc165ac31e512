package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// Metrics provides observability for validation and registry updates.
type Metrics struct {
	Registry *prometheus.Registry

	// Verdicts by result: valid, invalid, or the error class
	Verdicts *prometheus.CounterVec

	// Full validation latency including manifest fetch
	ValidateLatency prometheus.Histogram

	// Failed manifest fetch attempts by attempt number
	FetchRetries *prometheus.CounterVec

	// Registry outcomes by kind and reason
	Outcomes *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drc_validation_verdicts_total",
			Help: "Total validation results by result",
		}, []string{"result"}),

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "drc_validation_duration_seconds",
			Help:    "Duration of domain validation including manifest fetch",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		FetchRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drc_manifest_fetch_failures_total",
			Help: "Failed manifest fetch attempts by attempt number",
		}, []string{"attempt"}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drc_registry_outcomes_total",
			Help: "Registry update outcomes by kind and reason",
		}, []string{"kind", "reason"}),
	}
}

// ObserveVerdict implements usecase.ValidationObserver.
func (m *Metrics) ObserveVerdict(verdict *domain.Verdict, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ValidateLatency.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		m.Verdicts.WithLabelValues(domain.ErrorName(err)).Inc()
	case verdict != nil && verdict.Valid:
		m.Verdicts.WithLabelValues("valid").Inc()
	default:
		m.Verdicts.WithLabelValues("invalid").Inc()
	}
}

// ObserveOutcome implements usecase.ValidationObserver.
func (m *Metrics) ObserveOutcome(outcome *domain.UpdateOutcome) {
	if m == nil || outcome == nil {
		return
	}
	reason := string(outcome.Reason)
	if reason == "" {
		reason = "none"
	}
	m.Outcomes.WithLabelValues(string(outcome.Kind), reason).Inc()
}

// ObserveRetry records a failed manifest fetch attempt.
func (m *Metrics) ObserveRetry(_ string, attempt int, _ error) {
	if m == nil {
		return
	}
	m.FetchRetries.WithLabelValues(attemptLabel(attempt)).Inc()
}

// attemptLabel bounds label cardinality
func attemptLabel(attempt int) string {
	switch {
	case attempt <= 1:
		return "1"
	case attempt == 2:
		return "2"
	case attempt == 3:
		return "3"
	default:
		return "4+"
	}
}

var _ usecase.ValidationObserver = (*Metrics)(nil)
