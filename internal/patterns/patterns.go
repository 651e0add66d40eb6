package patterns

import (
	"regexp"
	"strings"
)

// Version identifies the recognizer set. Bump when recognizers change so
// stored results can be traced back to the rules that produced them.
const Version = "2025.2"

// Entity categories, in extraction order.
const (
	CategoryQuantities = "quantities"
	CategoryMaterials  = "materials"
	CategoryDeadlines  = "deadlines"
	CategoryMonetary   = "monetary"
	CategoryContact    = "contact_info"
	CategoryTopics     = "topics"
)

// Spec declares one recognizer before compilation.
type Spec struct {
	Category string
	Name     string
	Regex    string
}

// Recognizer is a compiled entity matcher.
type Recognizer struct {
	Category string
	Name     string
	regex    *regexp.Regexp
}

// FindAllIndex returns the spans of every match in text.
func (r *Recognizer) FindAllIndex(text string) [][]int {
	return r.regex.FindAllStringIndex(text, -1)
}

// DefaultSpecs returns the default recognizer set. Order within a category
// defines capture precedence.
func DefaultSpecs() []Spec {
	return []Spec{
		{CategoryQuantities, "count_with_unit", `(?i)\b\d+\s*(?:pieces?|units?|pounds?|feet|foot|tons?|gallons?|each)\b`},

		{CategoryMaterials, "graded_steel", `(?i)\b\d+[LH]?\s+(?:stainless\s+)?steel\b`},
		{CategoryMaterials, "schedule", `(?i)\bschedule\s+\d+\b`},
		{CategoryMaterials, "dimension", `(?i)\b\d+["']\s*(?:od|id|diameter)\b`},
		{CategoryMaterials, "alloy", `(?i)\b(?:304|316L?|carbon)\s+steel\b`},

		{CategoryDeadlines, "weekday", `(?i)\b(?:by\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`},
		{CategoryDeadlines, "month_day", `(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?\b`},
		{CategoryDeadlines, "numeric_date", `\b\d{1,2}/\d{1,2}/\d{2,4}\b`},

		{CategoryMonetary, "dollar_amount", `\$\s?\d[\d,]*(?:\.\d{2})?\b`},
		{CategoryMonetary, "spelled_amount", `(?i)\b\d[\d,]*\s*(?:usd|dollars)\b`},

		{CategoryContact, "email", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`},
		{CategoryContact, "phone", `\(?\d{3}\)?[-.\s]\d{3}[-.\s]?\d{4}\b`},
	}
}

// DefaultUrgencyVocabulary returns keywords that signal urgency. Presence of
// any of these escalates routing priority.
func DefaultUrgencyVocabulary() []string {
	return []string{"urgent", "emergency", "critical", "asap", "immediately"}
}

// DefaultCriticalVocabulary returns keywords that mark urgency as Critical
// rather than Standard.
func DefaultCriticalVocabulary() []string {
	return []string{"asap", "immediately", "emergency"}
}

// Library is the compiled, immutable pattern set.
type Library struct {
	recognizers []Recognizer
	urgency     []string
	critical    []string
}

// NewLibrary compiles specs into a Library. Invalid regexes are skipped.
// Empty slices fall back to the defaults.
func NewLibrary(specs []Spec, urgency, critical []string) *Library {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	if len(urgency) == 0 {
		urgency = DefaultUrgencyVocabulary()
	}
	if len(critical) == 0 {
		critical = DefaultCriticalVocabulary()
	}

	compiled := make([]Recognizer, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(s.Regex)
		if err != nil {
			continue
		}
		compiled = append(compiled, Recognizer{
			Category: s.Category,
			Name:     s.Name,
			regex:    re,
		})
	}

	return &Library{
		recognizers: compiled,
		urgency:     urgency,
		critical:    critical,
	}
}

// NewDefaultLibrary compiles the default recognizer set and vocabularies.
func NewDefaultLibrary() *Library {
	return NewLibrary(nil, nil, nil)
}

// Recognizers returns the compiled recognizers in declaration order.
func (l *Library) Recognizers() []Recognizer {
	return l.recognizers
}

// HasUrgency reports whether normalized text contains an urgency keyword.
func (l *Library) HasUrgency(normalized string) bool {
	return containsAny(normalized, l.urgency)
}

// HasCriticalUrgency reports whether normalized text contains a keyword from
// the critical vocabulary.
func (l *Library) HasCriticalUrgency(normalized string) bool {
	return containsAny(normalized, l.critical)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Normalize lowercases text and collapses runs of whitespace to single
// spaces. Classifier and tagger rules match against normalized text.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
