package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/shapekit/pkg/errors"
)

// Get resolves a dotted path such as "user.info.age" against obj.
//
// Segments are applied in order. Only the final lookup may come back empty:
// a missing last key yields (nil, nil). Every lookup needs an indexable
// container (*Record, map[string]any, or []any with a decimal segment), so
// resolving "a.b.c" where a.b is missing fails while reading "c".
//
// An empty path is a single empty segment and looks up obj[""].
func Get(path string, obj any) (any, error) {
	segments := strings.Split(path, ".")
	current := obj
	var parent any
	for i, segment := range segments {
		next, ok := index(current, segment)
		if !ok {
			return nil, pathError(path, segments, i, current, parent)
		}
		parent, current = current, next
	}
	return current, nil
}

// MustGet is like Get but panics if the path cannot be resolved.
func MustGet(path string, obj any) any {
	v, err := Get(path, obj)
	if err != nil {
		panic(err)
	}
	return v
}

// index looks key up in container. The boolean is false only when container
// cannot be indexed at all; a missing key is (nil, true).
func index(container any, key string) (any, bool) {
	switch c := container.(type) {
	case *Record:
		if c == nil {
			return nil, false
		}
		return c.Value(key), true
	case map[string]any:
		if c == nil {
			return nil, false
		}
		return c[key], true
	case []any:
		if c == nil {
			return nil, false
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(c) {
			return nil, true
		}
		return c[i], true
	default:
		return nil, false
	}
}

// pathError describes a failed lookup of segments[i]. When the value that
// could not be indexed was itself a missing key of parent, the error hints
// at the nearest sibling key.
func pathError(path string, segments []string, i int, current, parent any) error {
	missing := ""
	if i > 0 && current == nil {
		missing = segments[i-1]
	}
	return errors.NewPathError(path, segments[i], describe(current), missing, mapKeys(parent))
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case string:
		return fmt.Sprintf("string %q", t)
	default:
		return fmt.Sprintf("%T", v)
	}
}
