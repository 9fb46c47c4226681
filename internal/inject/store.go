package inject

import "sort"

// Store holds generated shader fragments keyed by name. Producers write to it
// during a reload; #generated directives read from it when a stage is loaded.
//
// Thread Safety: Store is NOT thread-safe.
type Store struct {
	values map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// Get returns the value stored under key
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Delete removes key
func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// Keys returns all keys in sorted order
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored values
func (s *Store) Len() int {
	return len(s.values)
}
