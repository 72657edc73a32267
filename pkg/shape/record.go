// Package shape provides helpers for reshaping generic key-value records:
// projecting and renaming fields, synchronizing two records, and resolving
// values through dotted paths.
package shape

import (
	"fmt"
	"strings"
)

// Map is an insertion-ordered mapping from string keys to values of type V.
// Setting an existing key replaces its value and keeps its position.
// The zero value is an empty map ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// Record is the universal input/output shape of the helpers in this package.
type Record = Map[any]

// Accessor reads a field lazily.
type Accessor func() any

// Accessors is the deferred counterpart of Record produced by RemapAccessors.
type Accessors = Map[Accessor]

// NewRecord builds a record from alternating key/value pairs.
// It panics if a key is not a string or a value is missing.
func NewRecord(pairs ...any) *Record {
	if len(pairs)%2 != 0 {
		panic("shape.NewRecord: odd number of arguments")
	}
	r := &Record{}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("shape.NewRecord: key %v is %T, not string", pairs[i], pairs[i]))
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Set stores value under key.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value under key and whether it was present.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value under key, or the zero value when absent.
func (m *Map[V]) Value(key string) V {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining keys.
func (m *Map[V]) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map[V]) Each(fn func(key string, value V) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap returns a plain Go map with the same entries. Nested records are
// converted recursively when V is any.
func (m *Map[V]) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(k string, v V) bool {
		out[k] = plain(any(v))
		return true
	})
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// String renders the record as {k: v, ...} in insertion order.
func (m *Map[V]) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	m.Each(func(k string, v V) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s: %v", k, any(v))
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

// FromMap builds a record from a Go map. Keys are sorted because Go maps carry
// no order; nested maps become nested records.
func FromMap(src map[string]any) *Record {
	r := &Record{}
	for _, k := range sortedKeys(src) {
		r.Set(k, fromPlain(src[k]))
	}
	return r
}

func fromPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromPlain(e)
		}
		return out
	default:
		return v
	}
}
