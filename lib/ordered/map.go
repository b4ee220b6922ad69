// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ordered

import (
	"bytes"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed mapping that remembers insertion order. The
// zero value is not usable; create one with [NewMap].
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a
// copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, exists := m.values[key]
	return exists
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, exists := m.values[key]
	return value, exists
}

// Set stores value under key. A new key is appended; an existing key
// keeps its position and only its value changes.
func (m *Map) Set(key string, value any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// Map returns the nested mapping stored under key, or nil when the key
// is absent or holds something other than a mapping.
func (m *Map) Map(key string) *Map {
	value, _ := m.Get(key)
	nested, _ := value.(*Map)
	return nested
}

// List returns the sequence stored under key, or nil when the key is
// absent or holds something other than a sequence.
func (m *Map) List(key string) []any {
	value, _ := m.Get(key)
	list, _ := value.([]any)
	return list
}

// String returns the scalar under key formatted with [Format], or
// fallback when the key is absent or null.
func (m *Map) String(key, fallback string) string {
	value, exists := m.Get(key)
	if !exists || value == nil {
		return fallback
	}
	return Format(value)
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	clone := &Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]any, len(m.values)),
	}
	copy(clone.keys, m.keys)
	for key, value := range m.values {
		clone.values[key] = Clone(value)
	}
	return clone
}

// MarshalJSON writes the mapping as a JSON object with keys in
// insertion order. Non-finite floats, which JSON cannot represent, are
// written as the strings ".inf", "-.inf" and ".nan".
func (m *Map) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	if err := writeValue(&buffer, m, true); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// MarshalYAML returns a mapping node with keys in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	return ToNode(m)
}

// UnmarshalYAML decodes a YAML mapping node into m, replacing any
// existing content.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	value, err := FromNode(node)
	if err != nil {
		return err
	}
	if value == nil {
		*m = *NewMap()
		return nil
	}
	decoded, ok := value.(*Map)
	if !ok {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, Kind(value))
	}
	*m = *decoded
	return nil
}
