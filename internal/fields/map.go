// Package fields provides an insertion-ordered string-keyed map used for
// extracted entities and routing tags.
//
// Keys are unique and case-normalized (lowercased, trimmed). JSON output
// preserves insertion order so analysis results render stably.
package fields

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Map is an insertion-ordered mapping of normalized keys to values. Values
// are scalars, []string lists, or nested *Map. The zero value is not usable;
// construct with New.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under the normalized key, preserving the key's original
// insertion position on overwrite.
func (m *Map) Set(key string, value any) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[normalizeKey(key)]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Values returns all values in key insertion order.
func (m *Map) Values() []any {
	out := make([]any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Clone returns a deep copy. Nested Maps are cloned; list values are copied.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := New()
	for _, k := range m.keys {
		switch v := m.values[k].(type) {
		case *Map:
			out.Set(k, v.Clone())
		case []string:
			list := make([]string, len(v))
			copy(list, v)
			out.Set(k, list)
		default:
			out.Set(k, v)
		}
	}
	return out
}

// MarshalJSON renders entries as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a JSON object. Insertion order follows Go's decoded
// map iteration only when order cannot be recovered; callers that need exact
// order should rebuild the Map themselves.
func (m *Map) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if m.values == nil {
		m.values = make(map[string]any)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	// Replay tokens to recover key order.
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		m.Set(key, raw[key])
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
