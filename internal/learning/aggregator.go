// Package learning accumulates cross-session statistics over completed
// analyses and applied corrections.
package learning

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
	"github.com/fyrsmithlabs/mailroom/internal/feedback"
)

// Metrics is the read-only snapshot of the running statistics.
type Metrics struct {
	TotalProcessed           int               `json:"total_processed"`
	AverageConfidence        float64           `json:"average_confidence"`
	CumulativeConfidenceGain float64           `json:"cumulative_confidence_gain"`
	FeedbackIterations       int               `json:"feedback_iterations"`
	PerIndustryCounts        map[string]int    `json:"per_industry_counts"`
	JargonDictionary         map[string]string `json:"jargon_dictionary"`
}

// Aggregator is the single serialization point for learning state. Every
// mutation goes through its mutex; readers get deep copies. Running averages
// are order-sensitive, so concurrent analyses must not interleave partial
// writes here.
type Aggregator struct {
	mu      sync.Mutex
	metrics Metrics
	sum     float64
	prom    *PromMetrics
}

// NewAggregator returns an empty aggregator registering its Prometheus
// mirror with reg.
func NewAggregator(reg prometheus.Registerer) *Aggregator {
	return &Aggregator{
		metrics: Metrics{
			PerIndustryCounts: make(map[string]int),
			JargonDictionary:  make(map[string]string),
		},
		prom: NewPromMetrics(reg),
	}
}

// RecordAnalysis folds one completed result into the running statistics.
// The mean is recomputed from a running sum, never retroactively.
func (a *Aggregator) RecordAnalysis(result *analysis.Result, industry string) {
	if result == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.metrics.TotalProcessed++
	a.sum += result.Confidence
	a.metrics.AverageConfidence = a.sum / float64(a.metrics.TotalProcessed)
	if industry != "" {
		a.metrics.PerIndustryCounts[industry]++
		a.prom.EmailsByIndustry.WithLabelValues(industry).Inc()
	}

	a.prom.EmailsProcessed.Inc()
	a.prom.AverageConfidence.Set(a.metrics.AverageConfidence)
}

// RecordFeedback folds one applied correction batch into the statistics.
// Jargon merges last-write-wins on alias collision. An empty batch with no
// jargon changes nothing.
func (a *Aggregator) RecordFeedback(corrections []feedback.FieldCorrection, jargon []feedback.JargonEntry) {
	if len(corrections) == 0 && len(jargon) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.metrics.FeedbackIterations++
	a.prom.FeedbackIterations.Inc()

	var gain float64
	for _, c := range corrections {
		gain += c.ConfidenceDelta
	}
	a.metrics.CumulativeConfidenceGain += gain
	a.prom.ConfidenceGain.Add(gain)

	for _, entry := range jargon {
		a.metrics.JargonDictionary[entry.Alias] = entry.Meaning
	}
	a.prom.JargonEntries.Set(float64(len(a.metrics.JargonDictionary)))
}

// Snapshot returns a deep copy of the current statistics.
func (a *Aggregator) Snapshot() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.metrics
	out.PerIndustryCounts = make(map[string]int, len(a.metrics.PerIndustryCounts))
	for k, v := range a.metrics.PerIndustryCounts {
		out.PerIndustryCounts[k] = v
	}
	out.JargonDictionary = make(map[string]string, len(a.metrics.JargonDictionary))
	for k, v := range a.metrics.JargonDictionary {
		out.JargonDictionary[k] = v
	}
	return out
}

// Reset clears all statistics. Exposed for explicit operator action only.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics = Metrics{
		PerIndustryCounts: make(map[string]int),
		JargonDictionary:  make(map[string]string),
	}
	a.sum = 0
	a.prom.AverageConfidence.Set(0)
	a.prom.JargonEntries.Set(0)
}
