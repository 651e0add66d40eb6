package intent

import (
	"testing"

	"github.com/fyrsmithlabs/mailroom/internal/patterns"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name  string
		text  string
		label string
		rule  string
	}{
		{
			name:  "product order",
			text:  "I would like to order 20 flanges",
			label: ProductOrderRequest,
			rule:  "product_order",
		},
		{
			name:  "quote",
			text:  "Please send pricing for schedule 40 pipe",
			label: QuoteRequest,
			rule:  "quote",
		},
		{
			name:  "urgent order beats product order",
			text:  "Urgent: we need to purchase valves today",
			label: UrgentOrderRequest,
			rule:  "urgent_order",
		},
		{
			name:  "emergency service beats urgent order",
			text:  "Urgent repair needed on the compressor",
			label: EmergencyServiceRequest,
			rule:  "emergency_service",
		},
		{
			name:  "legal",
			text:  "Our contract needs review before signing",
			label: LegalServicesRequest,
			rule:  "legal",
		},
		{
			name:  "support",
			text:  "I have an issue with my last delivery",
			label: SupportRequest,
			rule:  "support",
		},
		{
			name:  "default",
			text:  "Hello, what are your opening hours?",
			label: GeneralInquiry,
			rule:  "default",
		},
		{
			name:  "asap counts as urgency",
			text:  "We need 50 pieces of 304 stainless steel pipe, Schedule 40, ASAP",
			label: UrgentOrderRequest,
			rule:  "urgent_order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Label != tt.label {
				t.Errorf("Classify() label = %q, want %q", got.Label, tt.label)
			}
			if got.Rule != tt.rule {
				t.Errorf("Classify() rule = %q, want %q", got.Rule, tt.rule)
			}
		})
	}
}

func TestClassifier_EmptyInput(t *testing.T) {
	c := NewClassifier(nil, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		got := c.Classify(text)
		if got.Label != GeneralInquiry {
			t.Errorf("Classify(%q) = %q, want General Inquiry", text, got.Label)
		}
	}
}

func TestClassifier_JargonExpansion(t *testing.T) {
	jargon := patterns.NewDictionary(map[string]string{})
	jargon.Learn("rush", "urgent")

	c := NewClassifier(nil, jargon)

	// "rush" alone means nothing to the rules until the alias is learned.
	got := c.Classify("rush delivery of valves please")
	if got.Label != UrgentOrderRequest {
		t.Errorf("Classify() = %q, want %q after jargon expansion", got.Label, UrgentOrderRequest)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(nil, nil)
	text := "urgent service call for MRI unit"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if got := c.Classify(text); got != first {
			t.Fatalf("Classify() not deterministic: %+v vs %+v", got, first)
		}
	}
}
