package feedback

import (
	"regexp"
	"strings"
)

// rule binds a phrase pattern to a target field path. The capture group at
// index 1 is the new value; rules with a dynamic path compute it from
// additional groups.
type rule struct {
	name    string
	pattern *regexp.Regexp
	path    string
}

// The rule table evaluates in order and every matching rule fires, so a
// single message can carry a priority change and a department change at
// once. Value captures stop at the first comma or period, which is what
// keeps "Priority should be High, not Normal" from swallowing the
// explanation.
var (
	jargonPattern = regexp.MustCompile(`(?i)['"]([^'"]+)['"]\s+means\s+([^,.]+)`)

	missingPattern = regexp.MustCompile(`(?i)\bmissing\s+(?:extraction\s+of\s+)?([a-z_]+)\s+([^,.]+)`)

	correctionRules = []rule{
		{
			name:    "intent",
			pattern: regexp.MustCompile(`(?i)\bintent\s+should\s+be\s+['"]?([^,.'"]+)['"]?`),
			path:    "intent",
		},
		{
			name:    "priority",
			pattern: regexp.MustCompile(`(?i)\bpriority\s+should\s+be\s+['"]?([^,.'"]+)['"]?`),
			path:    "routing_tags.priority",
		},
		{
			name:    "department",
			pattern: regexp.MustCompile(`(?i)\bdepartment\s+should\s+be\s+['"]?([^,.'"]+)['"]?`),
			path:    "routing_tags.department",
		},
		{
			name:    "urgency",
			pattern: regexp.MustCompile(`(?i)\burgency\s+should\s+be\s+['"]?([^,.'"]+)['"]?`),
			path:    "routing_tags.urgency",
		},
	}
)

// Parser turns free-text reviewer messages into correction candidates and
// jargon entries. Stateless and safe for concurrent use.
type Parser struct{}

// NewParser returns a parser over the fixed rule table.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts every matching correction and jargon definition from the
// message. Rule order is fixed so repeated parses of the same message yield
// candidates in the same order. A message that matches nothing returns an
// empty Parsed, not an error.
func (p *Parser) Parse(message string) Parsed {
	parsed := Parsed{}
	message = strings.TrimSpace(message)
	if message == "" {
		return parsed
	}

	for _, m := range jargonPattern.FindAllStringSubmatch(message, -1) {
		parsed.Jargon = append(parsed.Jargon, JargonEntry{
			Alias:   strings.ToLower(strings.TrimSpace(m[1])),
			Meaning: strings.TrimSpace(m[2]),
		})
	}

	for _, r := range correctionRules {
		for _, m := range r.pattern.FindAllStringSubmatch(message, -1) {
			value := strings.TrimSpace(m[1])
			if value == "" {
				continue
			}
			parsed.Corrections = append(parsed.Corrections, Candidate{
				Rule:  r.name,
				Path:  r.path,
				Value: value,
			})
		}
	}

	for _, m := range missingPattern.FindAllStringSubmatch(message, -1) {
		name := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if name == "" || value == "" {
			continue
		}
		parsed.Corrections = append(parsed.Corrections, Candidate{
			Rule:  "missing_entity",
			Path:  "entities." + name,
			Value: value,
		})
	}

	return parsed
}
