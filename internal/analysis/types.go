// Package analysis runs the staged email analysis pipeline and owns the
// AnalysisResult model.
package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/mailroom/internal/corpus"
	"github.com/fyrsmithlabs/mailroom/internal/fields"
)

// Stage identifies a pipeline state. Transitions are strictly sequential:
// Pending → Classifying → Extracting → Retrieving → Routing → Scoring →
// Complete. Failed is reachable only on malformed input.
type Stage string

// Pipeline stages.
const (
	StagePending     Stage = "pending"
	StageClassifying Stage = "classifying"
	StageExtracting  Stage = "extracting"
	StageRetrieving  Stage = "retrieving"
	StageRouting     Stage = "routing"
	StageScoring     Stage = "scoring"
	StageComplete    Stage = "complete"
	StageFailed      Stage = "failed"
)

// PipelineStages lists the working stages in execution order.
func PipelineStages() []Stage {
	return []Stage{StageClassifying, StageExtracting, StageRetrieving, StageRouting, StageScoring}
}

// Email is the immutable analysis input.
type Email struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Company     string   `json:"company,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Result is one completed analysis. Created once per email by the
// orchestrator; mutable afterwards only through the correction applier.
type Result struct {
	ID               string        `json:"id"`
	EmailID          string        `json:"email_id"`
	Intent           string        `json:"intent"`
	IntentRule       string        `json:"intent_rule,omitempty"`
	Entities         *fields.Map   `json:"entities"`
	RoutingTags      *fields.Map   `json:"routing_tags"`
	KnowledgeMatch   *corpus.Match `json:"knowledge_base_match,omitempty"`
	Confidence       float64       `json:"confidence"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
	PatternVersion   string        `json:"pattern_version"`
	CompletedAt      time.Time     `json:"completed_at"`
}

// Clone returns a deep copy safe to hand to callers.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Entities = r.Entities.Clone()
	out.RoutingTags = r.RoutingTags.Clone()
	if r.KnowledgeMatch != nil {
		match := *r.KnowledgeMatch
		out.KnowledgeMatch = &match
	}
	return &out
}

// ErrUnknownField marks a field path that cannot be read or written.
var ErrUnknownField = errors.New("unknown field path")

// GetPath reads a dotted field path: "intent", "entities.<key>" or
// "routing_tags.<key>". Missing map keys return ("", false) rather than an
// error so the applier can record an empty old value when creating a field.
func (r *Result) GetPath(path string) (any, bool) {
	root, key := splitPath(path)
	switch root {
	case "intent":
		return r.Intent, true
	case "entities":
		if key == "" {
			return nil, false
		}
		return r.Entities.Get(key)
	case "routing_tags":
		if key == "" {
			return nil, false
		}
		return r.RoutingTags.Get(key)
	}
	return nil, false
}

// SetPath writes a dotted field path. The entities and routing_tags maps are
// open: unknown keys are created. Only intent and map members are writable;
// confidence and the knowledge match are derived fields.
func (r *Result) SetPath(path string, value any) error {
	root, key := splitPath(path)
	switch root {
	case "intent":
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: intent requires a non-empty string", ErrUnknownField)
		}
		r.Intent = s
		return nil
	case "entities":
		if key == "" {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		r.Entities.Set(key, value)
		return nil
	case "routing_tags":
		if key == "" {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		r.RoutingTags.Set(key, value)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, path)
}

func splitPath(path string) (root, key string) {
	root, key, _ = strings.Cut(strings.TrimSpace(path), ".")
	return strings.ToLower(root), strings.ToLower(strings.TrimSpace(key))
}

// Progress receives (stage, partial confidence) after each completed stage.
// The partial value is monotonically non-decreasing.
type Progress func(stage Stage, partial float64)
