package patterns

import (
	"sort"
	"strings"
	"sync"
)

// Dictionary maps jargon aliases to canonical meanings. Aliases are
// case-normalized on insert and lookup. Updates are last-write-wins and
// serialized internally, so one Dictionary may be shared by concurrent
// analyses. Learned entries affect later analyses only, never past results.
type Dictionary struct {
	mu      sync.RWMutex
	entries map[string]string
}

// DefaultJargon returns the seed alias set.
func DefaultJargon() map[string]string {
	return map[string]string{
		"ss":     "stainless steel",
		"304":    "304 grade stainless steel",
		"316":    "316 grade stainless steel",
		"sch 40": "schedule 40",
		"od":     "outside diameter",
	}
}

// NewDictionary returns a Dictionary seeded with entries. A nil seed uses
// DefaultJargon.
func NewDictionary(seed map[string]string) *Dictionary {
	if seed == nil {
		seed = DefaultJargon()
	}
	entries := make(map[string]string, len(seed))
	for alias, meaning := range seed {
		entries[normalizeAlias(alias)] = meaning
	}
	return &Dictionary{entries: entries}
}

// Learn inserts or overwrites an alias.
func (d *Dictionary) Learn(alias, meaning string) {
	alias = normalizeAlias(alias)
	if alias == "" {
		return
	}
	d.mu.Lock()
	d.entries[alias] = strings.TrimSpace(meaning)
	d.mu.Unlock()
}

// Lookup returns the canonical meaning for an alias.
func (d *Dictionary) Lookup(alias string) (string, bool) {
	d.mu.RLock()
	meaning, ok := d.entries[normalizeAlias(alias)]
	d.mu.RUnlock()
	return meaning, ok
}

// Expand appends the canonical meaning of every alias present in normalized
// text, so downstream keyword rules see canonical terms as well as the
// reviewer's shorthand.
func (d *Dictionary) Expand(normalized string) string {
	meanings := d.Meanings(normalized)
	if len(meanings) == 0 {
		return normalized
	}
	return normalized + " " + strings.Join(meanings, " ")
}

// Meanings returns the canonical meanings of aliases present in normalized
// text, in alias order.
func (d *Dictionary) Meanings(normalized string) []string {
	words := fieldSet(normalized)

	d.mu.RLock()
	aliases := make([]string, 0, len(d.entries))
	for alias := range d.entries {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	var meanings []string
	for _, alias := range aliases {
		if aliasPresent(alias, normalized, words) {
			meanings = append(meanings, d.entries[alias])
		}
	}
	d.mu.RUnlock()
	return meanings
}

// Snapshot returns a copy of every entry.
func (d *Dictionary) Snapshot() map[string]string {
	d.mu.RLock()
	out := make(map[string]string, len(d.entries))
	for alias, meaning := range d.entries {
		out[alias] = meaning
	}
	d.mu.RUnlock()
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	n := len(d.entries)
	d.mu.RUnlock()
	return n
}

// Single-word aliases must match a whole word; multi-word aliases match as
// substrings. "od" inside "good" is not a jargon hit.
func aliasPresent(alias, normalized string, words map[string]bool) bool {
	if strings.ContainsRune(alias, ' ') {
		return strings.Contains(normalized, alias)
	}
	return words[alias]
}

func fieldSet(normalized string) map[string]bool {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func normalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}
