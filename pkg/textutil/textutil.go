// Package textutil splits loosely formatted strings into token lists, joins
// token lists back into strings, and shortens long strings for display.
package textutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sambeau/shapekit/pkg/shape"
)

// SplitOptions controls ToArray.
type SplitOptions struct {
	Separator string         // literal separator; "" splits into characters
	Pattern   *regexp.Regexp // when set, used instead of Separator
	DropEmpty bool           // remove exactly-empty elements
	DropBlank bool           // remove whitespace-only elements (kept elements are not trimmed)
}

// DefaultSplitOptions returns {Separator: ",", DropEmpty: true}.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{Separator: ",", DropEmpty: true}
}

// ToArray splits s into tokens. An empty s stands in for an absent string.
func ToArray(s string, opts SplitOptions) []string {
	var parts []string
	if opts.Pattern != nil {
		parts = opts.Pattern.Split(s, -1)
	} else {
		parts = strings.Split(s, opts.Separator)
	}

	out := parts[:0]
	for _, p := range parts {
		if opts.DropEmpty && p == "" {
			continue
		}
		if opts.DropBlank && strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	if out == nil {
		return []string{}
	}
	return out
}

// Split is ToArray with DefaultSplitOptions and the given separator.
func Split(s, separator string) []string {
	opts := DefaultSplitOptions()
	opts.Separator = separator
	return ToArray(s, opts)
}

// JoinOptions controls ToString.
type JoinOptions struct {
	Separator string
	DropFalsy bool // skip "", 0, NaN, false and nil items
}

// DefaultJoinOptions returns {Separator: ",", DropFalsy: true}.
func DefaultJoinOptions() JoinOptions {
	return JoinOptions{Separator: ",", DropFalsy: true}
}

// ToString joins items, which are expected to be strings or numbers.
// Numbers render in shortest round-trip form and nil renders as "".
func ToString(items []any, opts JoinOptions) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if opts.DropFalsy && !shape.Truthy(item) {
			continue
		}
		parts = append(parts, stringify(item))
	}
	return strings.Join(parts, opts.Separator)
}

// JoinStrings is ToString for a string slice.
func JoinStrings(items []string, opts JoinOptions) string {
	anys := make([]any, len(items))
	for i, s := range items {
		anys[i] = s
	}
	return ToString(anys, opts)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
