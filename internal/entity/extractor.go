// Package entity extracts structured business entities from raw email text
// using the pattern library's recognizers.
package entity

import (
	"strings"

	"github.com/fyrsmithlabs/mailroom/internal/fields"
	"github.com/fyrsmithlabs/mailroom/internal/patterns"
)

// Extractor runs entity recognizers over raw (case-preserving) text.
// It is stateless and safe for concurrent use.
type Extractor struct {
	library *patterns.Library
	jargon  *patterns.Dictionary
}

// NewExtractor builds an extractor. A nil library uses the defaults; a nil
// dictionary disables topic extraction from learned jargon.
func NewExtractor(library *patterns.Library, jargon *patterns.Dictionary) *Extractor {
	if library == nil {
		library = patterns.NewDefaultLibrary()
	}
	return &Extractor{library: library, jargon: jargon}
}

// Extract collects every non-overlapping match per category. Categories with
// no matches are absent from the result, never empty lists. Recognizers run
// in library order, so earlier recognizers win overlapping spans: a bare
// year inside a longer date expression is not captured twice.
func (e *Extractor) Extract(text string) *fields.Map {
	out := fields.New()
	if strings.TrimSpace(text) == "" {
		return out
	}

	captured := map[string][]span{}
	lists := map[string][]string{}
	var order []string

	for _, rec := range e.library.Recognizers() {
		for _, idx := range rec.FindAllIndex(text) {
			s := span{start: idx[0], end: idx[1]}
			if overlaps(captured[rec.Category], s) {
				continue
			}
			captured[rec.Category] = append(captured[rec.Category], s)
			if _, seen := lists[rec.Category]; !seen {
				order = append(order, rec.Category)
			}
			lists[rec.Category] = append(lists[rec.Category], strings.TrimSpace(text[s.start:s.end]))
		}
	}

	for _, category := range order {
		if category == patterns.CategoryContact {
			out.Set(category, contactMap(lists[category]))
			continue
		}
		out.Set(category, lists[category])
	}

	if e.jargon != nil {
		if topics := e.jargon.Meanings(patterns.Normalize(text)); len(topics) > 0 {
			out.Set(patterns.CategoryTopics, topics)
		}
	}

	return out
}

type span struct {
	start, end int
}

func overlaps(spans []span, s span) bool {
	for _, existing := range spans {
		if s.start < existing.end && existing.start < s.end {
			return true
		}
	}
	return false
}

// contactMap splits contact matches into a nested email/phone map. The first
// match of each kind wins.
func contactMap(matches []string) *fields.Map {
	contact := fields.New()
	for _, m := range matches {
		if strings.ContainsRune(m, '@') {
			if _, ok := contact.Get("email"); !ok {
				contact.Set("email", m)
			}
			continue
		}
		if _, ok := contact.Get("phone"); !ok {
			contact.Set("phone", m)
		}
	}
	return contact
}
