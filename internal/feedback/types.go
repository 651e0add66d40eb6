// Package feedback parses reviewer messages into structured corrections and
// applies them to stored analysis results.
package feedback

import (
	"errors"
	"time"
)

// ErrStaleTarget marks feedback that references an analysis result that no
// longer exists. The whole batch is rejected; nothing is partially applied.
var ErrStaleTarget = errors.New("feedback target no longer exists")

// Candidate is one parsed correction before application: a dotted field path
// into the analysis result and the value the reviewer asked for.
type Candidate struct {
	Rule  string `json:"rule"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// JargonEntry is a learned alias-to-meaning mapping taught via feedback.
type JargonEntry struct {
	Alias   string `json:"alias"`
	Meaning string `json:"meaning"`
}

// FieldCorrection is the immutable audit record of one applied correction.
type FieldCorrection struct {
	ID              string    `json:"id"`
	EmailID         string    `json:"email_id"`
	Path            string    `json:"path"`
	OldValue        any       `json:"old_value,omitempty"`
	NewValue        any       `json:"new_value"`
	ConfidenceDelta float64   `json:"confidence_delta"`
	AppliedAt       time.Time `json:"applied_at"`
}

// Parsed is the outcome of parsing one reviewer message. Both lists may be
// empty; unmatched text is acknowledged, never an error.
type Parsed struct {
	Corrections []Candidate   `json:"corrections"`
	Jargon      []JargonEntry `json:"jargon"`
}
