package shape

import (
	"math"
	"reflect"
	"sort"
	"strings"
)

// Selector names one field to extract from a source record, optionally
// under a different name in the result.
type Selector struct {
	Key   string // field read from the source
	Alias string // field written to the result

	renamed bool // built as a key/alias pair
}

// Named selects key and keeps its name.
func Named(key string) Selector {
	return Selector{Key: key, Alias: key}
}

// Aliased selects key and stores it under alias.
func Aliased(key, alias string) Selector {
	return Selector{Key: key, Alias: alias, renamed: true}
}

// Names builds Named selectors for each key.
func Names(keys ...string) []Selector {
	out := make([]Selector, len(keys))
	for i, k := range keys {
		out[i] = Named(k)
	}
	return out
}

// ParseSelector reads "key" or "key:alias".
func ParseSelector(s string) Selector {
	if key, alias, ok := strings.Cut(s, ":"); ok {
		return Aliased(key, alias)
	}
	return Named(s)
}

// valid reports whether the selector can be applied. A plain name may be
// anything, including the empty string; a rename needs both sides.
func (s Selector) valid() bool {
	if s.renamed {
		return s.Key != "" && s.Alias != ""
	}
	if s.Key == s.Alias {
		return true
	}
	return s.Key != "" && s.Alias != ""
}

// Remap projects the selected fields of source into a new record.
// A key missing from source yields a nil field; invalid selectors are skipped.
// Later selectors writing the same alias overwrite earlier ones.
func Remap(selectors []Selector, source *Record) *Record {
	out := &Record{}
	for _, sel := range selectors {
		if !sel.valid() {
			continue
		}
		out.Set(sel.Alias, source.Value(sel.Key))
	}
	return out
}

// RemapAccessors is the deferred form of Remap: each field is an accessor
// that reads source when called, so later changes to source are visible.
func RemapAccessors(selectors []Selector, source *Record) *Accessors {
	out := &Accessors{}
	for _, sel := range selectors {
		if !sel.valid() {
			continue
		}
		key := sel.Key
		out.Set(sel.Alias, func() any { return source.Value(key) })
	}
	return out
}

// Sync returns a record with exactly the keys of from, in from's order.
// Each value comes from to when to holds a truthy value for that key,
// otherwise from from. A falsy override in to (0, "", false) is ignored.
func Sync(from, to *Record) *Record {
	out := &Record{}
	from.Each(func(k string, v any) bool {
		if override := to.Value(k); Truthy(override) {
			out.Set(k, override)
		} else {
			out.Set(k, v)
		}
		return true
	})
	return out
}

// Truthy reports whether v counts as set. nil (including nil pointers, maps
// and slices), false, numeric zero, NaN and the empty string are falsy; every
// other value, including empty records and empty non-nil slices, is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case *Record:
		return t != nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.String() != ""
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mapKeys lists the keys of an indexable value, for error hints.
func mapKeys(v any) []string {
	switch t := v.(type) {
	case *Record:
		return t.Keys()
	case map[string]any:
		return sortedKeys(t)
	}
	return nil
}
