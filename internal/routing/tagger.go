// Package routing derives dispatch tags (department, priority, urgency)
// from a classified intent and the email's text signals.
package routing

import (
	"strings"

	"github.com/fyrsmithlabs/mailroom/internal/fields"
	"github.com/fyrsmithlabs/mailroom/internal/intent"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
)

// Priority levels.
const (
	PriorityNormal   = "Normal"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Urgency levels.
const (
	UrgencyStandard = "Standard"
	UrgencyCritical = "Critical"
)

// DepartmentRule routes to a department when any keyword is present in the
// normalized text. Rules evaluate in order; the first match wins.
type DepartmentRule struct {
	Department string   `koanf:"department"`
	Keywords   []string `koanf:"keywords"`
}

// Config holds the routing rule table.
type Config struct {
	Departments        []DepartmentRule `koanf:"departments"`
	FallbackDepartment string           `koanf:"fallback_department"`
}

// DefaultConfig returns the default industry rule table.
func DefaultConfig() Config {
	return Config{
		Departments: []DepartmentRule{
			{Department: "Stainless Steel Sales", Keywords: []string{"stainless", "steel", "pipe"}},
			{Department: "Construction Services", Keywords: []string{"demolition", "construction", "hvac"}},
			{Department: "Medical Equipment Services", Keywords: []string{"medical", "hospital", "mri"}},
			{Department: "Legal Services", Keywords: []string{"legal", "contract", "compliance"}},
		},
		FallbackDepartment: "General",
	}
}

// Tagger applies the rule table. Stateless and safe for concurrent use.
type Tagger struct {
	config  Config
	library *patterns.Library
}

// NewTagger builds a tagger. An empty config uses DefaultConfig; a nil
// library uses the default vocabularies.
func NewTagger(cfg Config, library *patterns.Library) *Tagger {
	if len(cfg.Departments) == 0 && cfg.FallbackDepartment == "" {
		cfg = DefaultConfig()
	}
	if cfg.FallbackDepartment == "" {
		cfg.FallbackDepartment = DefaultConfig().FallbackDepartment
	}
	if library == nil {
		library = patterns.NewDefaultLibrary()
	}
	return &Tagger{config: cfg, library: library}
}

// Tag produces the routing tags for one analysis. Urgency keywords force
// priority escalation regardless of which department rule matched; an
// emergency service intent escalates priority to Critical. Extracted entity
// values join the keyword haystack, so a jargon-derived topic like
// "stainless steel" routes even when the raw text only says "ss".
func (t *Tagger) Tag(intentLabel, text string, entities *fields.Map) *fields.Map {
	normalized := patterns.Normalize(text)
	haystack := normalized + " " + entityText(entities)

	priority := PriorityNormal
	if t.library.HasUrgency(normalized) {
		priority = PriorityHigh
	}
	if intentLabel == intent.EmergencyServiceRequest {
		priority = PriorityCritical
	}

	urgency := UrgencyStandard
	if t.library.HasCriticalUrgency(normalized) {
		urgency = UrgencyCritical
	}

	department := t.config.FallbackDepartment
	for _, rule := range t.config.Departments {
		if containsAny(haystack, rule.Keywords) {
			department = rule.Department
			break
		}
	}

	tags := fields.New()
	tags.Set("priority", priority)
	tags.Set("department", department)
	tags.Set("urgency", urgency)
	return tags
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// entityText flattens extracted entity values into a lowercase string.
func entityText(entities *fields.Map) string {
	if entities == nil {
		return ""
	}
	var parts []string
	for _, value := range entities.Values() {
		switch v := value.(type) {
		case []string:
			parts = append(parts, v...)
		case string:
			parts = append(parts, v)
		case *fields.Map:
			for _, nested := range v.Values() {
				if s, ok := nested.(string); ok {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}
