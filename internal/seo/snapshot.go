package seo

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Snapshot is an ordered set of resolved key values.
type Snapshot struct {
	entries *orderedmap.OrderedMap[string, Value]
}

func newSnapshot() Snapshot {
	return Snapshot{entries: orderedmap.New[string, Value]()}
}

// Get returns the resolved value for key, absent when the key is not part of
// the snapshot.
func (s Snapshot) Get(key string) Value {
	if s.entries == nil {
		return Absent()
	}
	v, _ := s.entries.Get(key)
	return v
}

// Contains reports whether key is part of the snapshot.
func (s Snapshot) Contains(key string) bool {
	if s.entries == nil {
		return false
	}
	_, ok := s.entries.Get(key)
	return ok
}

// Keys returns the snapshot keys in order.
func (s Snapshot) Keys() []string {
	if s.entries == nil {
		return nil
	}
	keys := make([]string, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (s Snapshot) Len() int {
	if s.entries == nil {
		return 0
	}
	return s.entries.Len()
}

// Each calls fn for every key in order.
func (s Snapshot) Each(fn func(key string, v Value)) {
	if s.entries == nil {
		return
	}
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Strings returns the present values as a plain map.
func (s Snapshot) Strings() map[string]string {
	out := make(map[string]string, s.Len())
	s.Each(func(key string, v Value) {
		if str, ok := v.Lookup(); ok {
			out[key] = str
		}
	})
	return out
}

// MarshalJSON encodes the snapshot as an object in key order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.entries == nil {
		return []byte("{}"), nil
	}
	return s.entries.MarshalJSON()
}
