package confidence

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_StageProgressMonotonic(t *testing.T) {
	s := NewScorer(Weights{})

	prev := 0.0
	for i := 1; i <= 6; i++ {
		got := s.StageProgress(i)
		if got < prev {
			t.Fatalf("StageProgress(%d) = %v < previous %v", i, got, prev)
		}
		prev = got
	}

	// Past-the-end requests saturate at the last base.
	if got := s.StageProgress(99); got != prev {
		t.Errorf("StageProgress(99) = %v, want %v", got, prev)
	}
	if got := s.StageProgress(0); got != 0 {
		t.Errorf("StageProgress(0) = %v, want 0", got)
	}
}

func TestScorer_Final(t *testing.T) {
	s := NewScorer(Weights{})

	tests := []struct {
		name        string
		matchScore  float64
		hasEntities bool
		want        float64
	}{
		{"no signals", 0, false, 0.92},
		{"entities only", 0, true, 0.97},
		{"full match and entities clamps at cap", 1.0, true, 0.98},
		{"partial match", 0.5, false, 0.97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Final(tt.matchScore, tt.hasEntities)
			if !almostEqual(got, tt.want) {
				t.Errorf("Final(%v, %v) = %v, want %v", tt.matchScore, tt.hasEntities, got, tt.want)
			}
		})
	}
}

func TestScorer_Bounds(t *testing.T) {
	s := NewScorer(Weights{})

	for _, match := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		for _, entities := range []bool{false, true} {
			got := s.Final(match, entities)
			if got < 0 || got > 0.98 {
				t.Errorf("Final(%v, %v) = %v, outside [0, 0.98]", match, entities, got)
			}
		}
	}
}

func TestScorer_DegenerateInput(t *testing.T) {
	s := NewScorer(Weights{})
	if got := s.DegenerateInput(); got != 0.30 {
		t.Errorf("DegenerateInput() = %v, want 0.30", got)
	}
}

func TestScorer_CustomWeights(t *testing.T) {
	s := NewScorer(Weights{
		StageBases:  []float64{0.5, 0.6},
		MatchWeight: 0.2,
		EntityBonus: 0.1,
		Floor:       0.1,
		InitialCap:  0.9,
	})

	if got := s.Final(1.0, true); !almostEqual(got, 0.9) {
		t.Errorf("Final() = %v, want clamp at 0.9", got)
	}
	if got := s.Final(0, false); !almostEqual(got, 0.6) {
		t.Errorf("Final() = %v, want 0.6", got)
	}
}
