// Package confidence combines per-stage signals into the scalar confidence
// attached to every analysis result.
//
// Scoring is deterministic: the same signals always produce the same value.
package confidence

// Weights are the tunable scoring constants. They are configuration, not
// business logic: operators may adjust them without code changes.
type Weights struct {
	// StageBases is the progress value reported after each completed
	// pipeline stage. Must be monotonically non-decreasing.
	StageBases []float64 `koanf:"stage_bases"`

	// MatchWeight scales the retrieval match score into the final value.
	MatchWeight float64 `koanf:"match_weight"`

	// EntityBonus is added when at least one entity category was extracted.
	EntityBonus float64 `koanf:"entity_bonus"`

	// Floor is the confidence assigned to degenerate input.
	Floor float64 `koanf:"floor"`

	// InitialCap bounds the initial computation below 1.0 so corrections
	// have headroom to raise confidence toward 1.0.
	InitialCap float64 `koanf:"initial_cap"`
}

// DefaultWeights returns the default scoring constants.
func DefaultWeights() Weights {
	return Weights{
		StageBases:  []float64{0.30, 0.45, 0.60, 0.72, 0.85, 0.92},
		MatchWeight: 0.10,
		EntityBonus: 0.05,
		Floor:       0.30,
		InitialCap:  0.98,
	}
}

// Scorer computes confidence values from pipeline signals.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer; zero-value weights fall back to the defaults.
func NewScorer(w Weights) *Scorer {
	if len(w.StageBases) == 0 {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Weights returns the active scoring constants.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// StageProgress returns the progress value after completing stage number
// stagesDone (1-based count of finished stages). The progression is
// monotonically non-decreasing and never retroactively lowered, which is
// what makes it usable as a progress display.
func (s *Scorer) StageProgress(stagesDone int) float64 {
	bases := s.weights.StageBases
	if stagesDone <= 0 {
		return 0
	}
	if stagesDone > len(bases) {
		stagesDone = len(bases)
	}
	return bases[stagesDone-1]
}

// Final combines the completed-pipeline base, the retrieval match score (0
// when no match was found), and the entity bonus, clamped to
// [Floor, InitialCap].
func (s *Scorer) Final(matchScore float64, hasEntities bool) float64 {
	value := s.StageProgress(len(s.weights.StageBases))
	value += s.weights.MatchWeight * matchScore
	if hasEntities {
		value += s.weights.EntityBonus
	}
	return s.clamp(value)
}

// DegenerateInput returns the floor confidence used when the email text was
// empty: the pipeline still produces a default result rather than failing.
func (s *Scorer) DegenerateInput() float64 {
	return s.weights.Floor
}

func (s *Scorer) clamp(v float64) float64 {
	if v < s.weights.Floor {
		return s.weights.Floor
	}
	if v > s.weights.InitialCap {
		return s.weights.InitialCap
	}
	return v
}
