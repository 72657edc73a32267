// Package errors provides structured error types for the shapekit helpers.
//
// This package defines ShapeError, a single error type carrying a catalog code,
// a class, a rendered message and optional hints. Codes are stable and meant for
// programmatic handling; messages are meant for people.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassPath   ErrorClass = "path"   // Dotted-path resolution
	ClassFormat ErrorClass = "format" // Date/number input that cannot be formatted
	ClassType   ErrorClass = "type"   // Unsupported value types
	ClassLocale ErrorClass = "locale" // Locale and time zone lookup
	ClassPick   ErrorClass = "pick"   // File selection
	ClassIO     ErrorClass = "io"     // File operations
)

// ShapeError represents any error raised by the helpers.
type ShapeError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "PATH-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Data    map[string]any `json:"data,omitempty"`  // Template variables
	Err     error          `json:"-"`               // Underlying cause, if any
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString(e.Code)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ShapeError with the same code.
// This lets callers match against the sentinel values below with errors.Is.
func (e *ShapeError) Is(target error) bool {
	t, ok := target.(*ShapeError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// ToJSON returns the error as JSON bytes.
func (e *ShapeError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithCause returns a copy of the error wrapping err.
func (e *ShapeError) WithCause(err error) *ShapeError {
	copy := *e
	copy.Err = err
	return &copy
}

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrPathResolution   = &ShapeError{Code: "PATH-0001"}
	ErrUnparseableDate  = &ShapeError{Code: "DATE-0001"}
	ErrUnsupportedDate  = &ShapeError{Code: "DATE-0002"}
	ErrUnknownDateStyle = &ShapeError{Code: "DATE-0003"}
	ErrInvalidLocale    = &ShapeError{Code: "LOCALE-0001"}
	ErrUnknownTimezone  = &ShapeError{Code: "LOCALE-0002"}
	ErrNoSelection      = &ShapeError{Code: "PICK-0001"}
	ErrNotAccepted      = &ShapeError{Code: "PICK-0002"}
	ErrUnreadableFile   = &ShapeError{Code: "PICK-0003"}
)

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Path errors (PATH-0xxx)
	// ========================================
	"PATH-0001": {
		Class:    ClassPath,
		Template: "cannot read '{{.Segment}}' of {{.Got}} while resolving '{{.Path}}'",
		Hints:    []string{"every segment before the last must name a record"},
	},

	// ========================================
	// Date errors (DATE-0xxx)
	// ========================================
	"DATE-0001": {
		Class:    ClassFormat,
		Template: "cannot parse date '{{.Input}}'",
		Hints:    []string{"use an ISO-like value such as 2006-01-02 15:04:05"},
	},
	"DATE-0002": {
		Class:    ClassType,
		Template: "cannot use {{.Got}} as a date",
		Hints:    []string{"pass a time.Time, a date string, or epoch milliseconds"},
	},
	"DATE-0003": {
		Class:    ClassFormat,
		Template: "unknown date style '{{.Style}}'",
		Hints:    []string{"valid styles: short, medium, long, full"},
	},

	// ========================================
	// Locale errors (LOCALE-0xxx)
	// ========================================
	"LOCALE-0001": {
		Class:    ClassLocale,
		Template: "invalid locale '{{.Locale}}'",
		Hints:    []string{"use a BCP 47 tag such as en-US or de-DE"},
	},
	"LOCALE-0002": {
		Class:    ClassLocale,
		Template: "unknown time zone '{{.Zone}}'",
		Hints:    []string{"use an IANA name such as Europe/Paris, or UTC, or Local"},
	},

	// ========================================
	// Picker errors (PICK-0xxx)
	// ========================================
	"PICK-0001": {
		Class:    ClassPick,
		Template: "no file selected",
	},
	"PICK-0002": {
		Class:    ClassPick,
		Template: "file '{{.File}}' does not match accept filter '{{.Accept}}'",
	},
	"PICK-0003": {
		Class:    ClassIO,
		Template: "cannot read file '{{.File}}'",
	},
}

// New creates a ShapeError from the catalog.
func New(code string, data map[string]any) *ShapeError {
	def, ok := ErrorCatalog[code]
	if !ok {
		// Unknown code - create a generic error
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &ShapeError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &ShapeError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// Newf creates a simple error without using the catalog.
func Newf(class ErrorClass, format string, args ...any) *ShapeError {
	return &ShapeError{
		Class:   class,
		Message: fmt.Sprintf(format, args...),
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// threshold returns the maximum edit distance worth suggesting for input.
// Short words (1-3): 1 edit, medium (4-6): 2, longer: 3.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise empty string.
// Ties are broken alphabetically so the suggestion does not depend on map order.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	inputLower := strings.ToLower(input)
	bestMatch := ""
	bestDistance := -1

	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Don't suggest if distance is 0 (exact match) or over threshold
	if bestDistance <= 0 || bestDistance > threshold(input) {
		return ""
	}

	return bestMatch
}

// NewPathError creates a path resolution error, suggesting a sibling key
// when the failing segment's parent had a near miss.
func NewPathError(path, segment, got, missing string, siblings []string) *ShapeError {
	err := New("PATH-0001", map[string]any{
		"Path":    path,
		"Segment": segment,
		"Got":     got,
	})

	if missing != "" {
		if suggestion := FindClosestMatch(missing, siblings); suggestion != "" {
			err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
		}
	}

	return err
}
