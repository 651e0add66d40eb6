package feedback

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailroom/internal/analysis"
)

// ApplierConfig tunes correction application.
type ApplierConfig struct {
	// ConfidenceDelta is added per applied correction, capped at 1.0.
	ConfidenceDelta float64 `koanf:"confidence_delta"`
}

// DefaultApplierConfig returns the default application constants.
func DefaultApplierConfig() ApplierConfig {
	return ApplierConfig{ConfidenceDelta: 0.05}
}

// Applier writes parsed corrections into an analysis result and produces the
// audit trail. It mutates the result it is given; callers that need
// atomicity run Apply inside the result store's Update.
type Applier struct {
	config ApplierConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewApplier builds an applier; a zero delta falls back to the default and a
// nil logger uses a no-op logger.
func NewApplier(cfg ApplierConfig, logger *zap.Logger) *Applier {
	if cfg.ConfidenceDelta <= 0 {
		cfg = DefaultApplierConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{config: cfg, logger: logger.Named("feedback"), now: time.Now}
}

// Apply writes each candidate in parse order, so later corrections in the
// batch see the effects of earlier ones. Every applied correction raises
// confidence by the configured delta, capped at 1.0 and never decreasing.
// An empty batch changes nothing and returns no audit entries. A candidate
// with an invalid path fails the whole batch; the caller discards the
// half-mutated result.
func (a *Applier) Apply(result *analysis.Result, candidates []Candidate) ([]FieldCorrection, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	corrections := make([]FieldCorrection, 0, len(candidates))
	for _, cand := range candidates {
		oldValue, _ := result.GetPath(cand.Path)
		if err := result.SetPath(cand.Path, cand.Value); err != nil {
			return nil, fmt.Errorf("apply correction %q: %w", cand.Path, err)
		}

		result.Confidence += a.config.ConfidenceDelta
		if result.Confidence > 1.0 {
			result.Confidence = 1.0
		}

		corrections = append(corrections, FieldCorrection{
			ID:              uuid.NewString(),
			EmailID:         result.EmailID,
			Path:            cand.Path,
			OldValue:        oldValue,
			NewValue:        cand.Value,
			ConfidenceDelta: a.config.ConfidenceDelta,
			AppliedAt:       a.now(),
		})
	}

	a.logger.Info("corrections applied",
		zap.String("result_id", result.ID),
		zap.Int("count", len(corrections)),
		zap.Float64("confidence", result.Confidence),
	)
	return corrections, nil
}
