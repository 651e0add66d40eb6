package learning

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromMetrics mirrors the aggregator's counters as Prometheus metrics.
//
// All metrics are prefixed with "mailroom_" for namespacing:
//   - mailroom_emails_processed_total
//   - mailroom_feedback_iterations_total
//   - mailroom_confidence_gain_total
//   - mailroom_average_confidence
//   - mailroom_emails_by_industry_total{industry}
//   - mailroom_jargon_entries
type PromMetrics struct {
	EmailsProcessed    prometheus.Counter
	FeedbackIterations prometheus.Counter
	ConfidenceGain     prometheus.Counter
	AverageConfidence  prometheus.Gauge
	EmailsByIndustry   *prometheus.CounterVec
	JargonEntries      prometheus.Gauge
}

// NewPromMetrics registers the aggregator metrics with reg. A nil registerer
// uses the default registry. Each aggregator owns its own metric set, so
// tests pass a private registry and never trip duplicate registration.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PromMetrics{
		EmailsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailroom_emails_processed_total",
			Help: "Total number of emails analyzed",
		}),
		FeedbackIterations: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailroom_feedback_iterations_total",
			Help: "Total number of applied feedback batches",
		}),
		ConfidenceGain: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailroom_confidence_gain_total",
			Help: "Cumulative confidence gained through corrections",
		}),
		AverageConfidence: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mailroom_average_confidence",
			Help: "Arithmetic mean confidence over all processed emails",
		}),
		EmailsByIndustry: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailroom_emails_by_industry_total",
			Help: "Emails analyzed per declared industry",
		}, []string{"industry"}),
		JargonEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mailroom_jargon_entries",
			Help: "Current number of learned jargon entries",
		}),
	}
}
