package corpus

import (
	"sort"
	"strings"
	"sync"
)

// Index holds immutable chunks and scores queries against them. The index is
// append-only: chunks are never mutated or removed, so concurrent reads need
// no coordination beyond the append lock.
type Index struct {
	mu     sync.RWMutex
	chunks []Chunk
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Append indexes every record of doc. Records with no fields and no text are
// skipped. Free text is derived from the field values when absent so that
// substring scoring always has something to match.
func (ix *Index) Append(doc Document) int {
	added := make([]Chunk, 0, len(doc.Records))
	for _, rec := range doc.Records {
		if len(rec.Fields) == 0 && strings.TrimSpace(rec.Text) == "" {
			continue
		}
		added = append(added, Chunk{
			Source:  doc.Source,
			Locator: rec.Locator,
			Fields:  rec.Fields,
			Text:    deriveText(rec),
		})
	}

	ix.mu.Lock()
	ix.chunks = append(ix.chunks, added...)
	ix.mu.Unlock()
	return len(added)
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	n := len(ix.chunks)
	ix.mu.RUnlock()
	return n
}

// Search scores every chunk against the query and returns results with a
// positive score, ordered by score descending. Ties break by lowest locator,
// then source id lexical order, so results are reproducible for a fixed
// corpus. k > 0 limits the result count. A query that is empty after
// trimming returns nil.
func (ix *Index) Search(query string, k int) []SearchResult {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(tokens) == 0 {
		return nil
	}

	ix.mu.RLock()
	chunks := ix.chunks
	ix.mu.RUnlock()

	results := make([]SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		if score := scoreChunk(chunk, tokens); score > 0 {
			results = append(results, SearchResult{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Chunk.Locator != b.Chunk.Locator {
			return a.Chunk.Locator < b.Chunk.Locator
		}
		return a.Chunk.Source < b.Chunk.Source
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// BestMatch returns the top-scoring chunk as a Match, or false when nothing
// scored above zero.
func (ix *Index) BestMatch(query string) (*Match, bool) {
	results := ix.Search(query, 1)
	if len(results) == 0 {
		return nil, false
	}
	top := results[0]
	return &Match{
		Source:  top.Chunk.Source,
		Locator: top.Chunk.Locator,
		Excerpt: top.Chunk.Text,
		Score:   top.Score,
	}, true
}

// scoreChunk counts case-insensitive substring containment of each token
// against every field value and the free text, normalized by
// matched / (tokens * 2) and clamped to [0,1].
func scoreChunk(chunk Chunk, tokens []string) float64 {
	matched := 0
	text := strings.ToLower(chunk.Text)
	for _, token := range tokens {
		for _, value := range chunk.Fields {
			if strings.Contains(strings.ToLower(value), token) {
				matched++
			}
		}
		if strings.Contains(text, token) {
			matched++
		}
	}

	score := float64(matched) / float64(len(tokens)*2)
	if score > 1 {
		score = 1
	}
	return score
}

func deriveText(rec Record) string {
	if strings.TrimSpace(rec.Text) != "" {
		return rec.Text
	}
	keys := make([]string, 0, len(rec.Fields))
	for key := range rec.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, rec.Fields[key])
	}
	return strings.Join(parts, " ")
}
