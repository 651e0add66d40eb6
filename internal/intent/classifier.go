// Package intent classifies email text into one label from a closed
// vocabulary using ordered keyword rules.
package intent

import (
	"strings"

	"github.com/fyrsmithlabs/mailroom/internal/patterns"
)

// Intent labels. The vocabulary is closed; the classifier never returns a
// label outside this set.
const (
	ProductOrderRequest     = "Product Order Request"
	QuoteRequest            = "Quote Request"
	EmergencyServiceRequest = "Emergency Service Request"
	UrgentOrderRequest      = "Urgent Order Request"
	LegalServicesRequest    = "Legal Services Request"
	SupportRequest          = "Support Request"
	GeneralInquiry          = "General Inquiry"
)

// Rule matches normalized text when any keyword from Any is present and,
// if AlsoAny is non-empty, any keyword from AlsoAny is present too.
type Rule struct {
	Name    string
	Label   string
	Any     []string
	AlsoAny []string
}

// DefaultRules returns the rule table in evaluation order. Higher-specificity
// rules come first: an urgent service request must classify as emergency
// service before the generic urgent-order rule can claim it.
func DefaultRules() []Rule {
	urgency := patterns.DefaultUrgencyVocabulary()
	return []Rule{
		{Name: "emergency_service", Label: EmergencyServiceRequest, Any: urgency, AlsoAny: []string{"service", "repair"}},
		{Name: "urgent_order", Label: UrgentOrderRequest, Any: urgency},
		{Name: "product_order", Label: ProductOrderRequest, Any: []string{"order", "purchase", "buy"}},
		{Name: "quote", Label: QuoteRequest, Any: []string{"quote", "pricing", "estimate"}},
		{Name: "legal", Label: LegalServicesRequest, Any: []string{"contract", "agreement", "legal"}},
		{Name: "support", Label: SupportRequest, Any: []string{"support", "help", "issue"}},
	}
}

// Result is a classification outcome.
type Result struct {
	Label string
	Rule  string // name of the rule that fired, or "default"
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules  []Rule
	jargon *patterns.Dictionary
}

// NewClassifier builds a classifier. Nil rules use DefaultRules; a nil
// dictionary disables jargon expansion.
func NewClassifier(rules []Rule, jargon *patterns.Dictionary) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules, jargon: jargon}
}

// Classify labels raw email text. Empty input yields General Inquiry; the
// caller is expected to score it at the confidence floor.
func (c *Classifier) Classify(text string) Result {
	normalized := patterns.Normalize(text)
	if normalized == "" {
		return Result{Label: GeneralInquiry, Rule: "default"}
	}
	if c.jargon != nil {
		normalized = c.jargon.Expand(normalized)
	}

	for _, rule := range c.rules {
		if rule.matches(normalized) {
			return Result{Label: rule.Label, Rule: rule.Name}
		}
	}
	return Result{Label: GeneralInquiry, Rule: "default"}
}

func (r Rule) matches(normalized string) bool {
	if !containsAny(normalized, r.Any) {
		return false
	}
	if len(r.AlsoAny) > 0 && !containsAny(normalized, r.AlsoAny) {
		return false
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
