// Package corpus provides the in-memory document index and the term-overlap
// retrieval matcher used to ground analysis results.
package corpus

// Chunk is one indexed unit of a knowledge document. Immutable once indexed.
type Chunk struct {
	Source  string            `json:"source"`
	Locator int               `json:"locator"`
	Fields  map[string]string `json:"fields,omitempty"`
	Text    string            `json:"text"`
}

// Record is one not-yet-indexed document record supplied by the ingestion
// collaborator. Text may be empty; the index derives it from Fields.
type Record struct {
	Locator int               `yaml:"locator" json:"locator"`
	Fields  map[string]string `yaml:"fields" json:"fields,omitempty"`
	Text    string            `yaml:"text" json:"text,omitempty"`
}

// Document is a parsed source document: an id plus its records.
type Document struct {
	Source  string   `yaml:"source" json:"source"`
	Records []Record `yaml:"records" json:"records"`
}

// SearchResult pairs a chunk with its relevance score in [0,1].
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Match is the best-scoring chunk for a query. Absence of a match is
// represented by (nil, false) from BestMatch, never by a zero-score Match.
type Match struct {
	Source  string  `json:"source"`
	Locator int     `json:"locator"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}
