package config

import (
	"sort"
	"strings"
)

// Store is the frozen result of a Load: flat dotted keys mapped to resolved
// scalar values. It is never modified after construction and is safe for
// concurrent reads.
type Store struct {
	values map[string]any
	keys   []string
}

// NewStore builds a Store from a copy of values.
func NewStore(values map[string]any) *Store {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return freeze(copied)
}

// freeze takes ownership of values.
func freeze(values map[string]any) *Store {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Store{values: values, keys: keys}
}

// Get returns the value for key, or nil when absent.
func (s *Store) Get(key string) any {
	return s.values[key]
}

// Lookup returns the value for key and whether the key exists. A key can
// exist with a nil value, e.g. after an unresolved placeholder.
func (s *Store) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key exists.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s *Store) Len() int { return len(s.keys) }

// Map returns a copy of the underlying mapping.
func (s *Store) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Sub returns the keys under prefix with the prefix and its dot removed.
// An empty prefix returns s.
func (s *Store) Sub(prefix string) *Store {
	if prefix == "" {
		return s
	}
	p := prefix + "."
	sub := make(map[string]any)
	for k, v := range s.values {
		if strings.HasPrefix(k, p) {
			sub[strings.TrimPrefix(k, p)] = v
		}
	}
	return freeze(sub)
}
