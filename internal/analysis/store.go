package analysis

import (
	"errors"
	"fmt"
	"sync"
)

// ErrResultNotFound marks a lookup for a result ID the store has never seen.
var ErrResultNotFound = errors.New("analysis result not found")

// Store holds completed analysis results in memory, keyed by result ID.
// Reads return deep copies; the only way to mutate a stored result is
// Update, which runs the mutator under the store lock so correction batches
// apply atomically.
type Store struct {
	mu      sync.RWMutex
	results map[string]*Result
}

// NewStore returns an empty result store.
func NewStore() *Store {
	return &Store{results: make(map[string]*Result)}
}

// Put stores a result, replacing any previous result with the same ID.
func (s *Store) Put(result *Result) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result.Clone()
}

// Get returns a deep copy of the result with the given ID.
func (s *Store) Get(id string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	return result.Clone(), nil
}

// Update applies mutate to the stored result under the write lock. The
// mutator sees a private copy; the copy replaces the stored result only when
// the mutator returns nil, so a failed mutation leaves the result untouched.
func (s *Store) Update(id string, mutate func(*Result) error) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	s.results[id] = working
	return working.Clone(), nil
}

// Delete removes a result. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
