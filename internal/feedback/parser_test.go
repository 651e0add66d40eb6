package feedback

import (
	"testing"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name        string
		message     string
		corrections []Candidate
		jargon      []JargonEntry
	}{
		{
			name:    "priority correction stops at comma",
			message: "Priority should be High, not Normal",
			corrections: []Candidate{
				{Rule: "priority", Path: "routing_tags.priority", Value: "High"},
			},
		},
		{
			name:    "jargon definition only",
			message: "'SS' means stainless steel",
			jargon:  []JargonEntry{{Alias: "ss", Meaning: "stainless steel"}},
		},
		{
			name:    "quoted intent",
			message: "Intent should be 'Emergency Service Request', not Quote Request",
			corrections: []Candidate{
				{Rule: "intent", Path: "intent", Value: "Emergency Service Request"},
			},
		},
		{
			name:    "missing entity with extraction phrase",
			message: "Missing extraction of deadline Friday",
			corrections: []Candidate{
				{Rule: "missing_entity", Path: "entities.deadline", Value: "Friday"},
			},
		},
		{
			name:    "missing entity short form",
			message: "missing department Sales",
			corrections: []Candidate{
				{Rule: "missing_entity", Path: "entities.department", Value: "Sales"},
			},
		},
		{
			name:    "multiple rules on one message",
			message: "Priority should be Critical. Department should be Legal Services. 'OD' means outer diameter",
			corrections: []Candidate{
				{Rule: "priority", Path: "routing_tags.priority", Value: "Critical"},
				{Rule: "department", Path: "routing_tags.department", Value: "Legal Services"},
			},
			jargon: []JargonEntry{{Alias: "od", Meaning: "outer diameter"}},
		},
		{
			name:    "urgency correction",
			message: "urgency should be Critical",
			corrections: []Candidate{
				{Rule: "urgency", Path: "routing_tags.urgency", Value: "Critical"},
			},
		},
		{
			name:    "unmatched text yields nothing",
			message: "Great work, looks correct to me!",
		},
		{
			name:    "empty message",
			message: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := p.Parse(tt.message)

			if len(parsed.Corrections) != len(tt.corrections) {
				t.Fatalf("Corrections = %+v, want %+v", parsed.Corrections, tt.corrections)
			}
			for i, want := range tt.corrections {
				if parsed.Corrections[i] != want {
					t.Errorf("Corrections[%d] = %+v, want %+v", i, parsed.Corrections[i], want)
				}
			}

			if len(parsed.Jargon) != len(tt.jargon) {
				t.Fatalf("Jargon = %+v, want %+v", parsed.Jargon, tt.jargon)
			}
			for i, want := range tt.jargon {
				if parsed.Jargon[i] != want {
					t.Errorf("Jargon[%d] = %+v, want %+v", i, parsed.Jargon[i], want)
				}
			}
		})
	}
}

func TestParser_Deterministic(t *testing.T) {
	p := NewParser()
	message := "Priority should be High. Intent should be Support Request. Missing topic flanges"

	first := p.Parse(message)
	second := p.Parse(message)

	if len(first.Corrections) != len(second.Corrections) {
		t.Fatalf("parse counts differ: %d vs %d", len(first.Corrections), len(second.Corrections))
	}
	for i := range first.Corrections {
		if first.Corrections[i] != second.Corrections[i] {
			t.Errorf("candidate order not stable at %d: %+v vs %+v",
				i, first.Corrections[i], second.Corrections[i])
		}
	}
}
