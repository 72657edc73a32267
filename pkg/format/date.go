// Package format renders dates through a small token language and numbers
// with locale grouping plus a fixed number of fraction digits.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/sambeau/shapekit/pkg/errors"
	"github.com/sambeau/shapekit/pkg/locale"
)

// Common templates.
const (
	DateTemplate     = "YYYY-MM-DD"
	TimeTemplate     = "hh:mm:ss"
	DateTimeTemplate = "YYYY-MM-DD hh:mm:ss"
)

// FormatDate substitutes date tokens in template with parts of d, read in
// the provider's time zone.
//
// Recognized tokens are YYYY (full year), YY (year without its first two
// digits), MM, DD, hh (00-23), mm and ss. They are replaced in that order and
// only at their first occurrence; all other text passes through.
//
// d may be a time.Time, a date string, or epoch milliseconds.
func FormatDate(p locale.Provider, d any, template string) (string, error) {
	t, err := ToTime(p, d)
	if err != nil {
		return "", err
	}

	year := strconv.Itoa(t.Year())
	shortYear := ""
	if len(year) > 2 {
		shortYear = year[2:]
	}

	replacements := []struct{ token, value string }{
		{"YYYY", year},
		{"YY", shortYear},
		{"MM", pad2(int(t.Month()))},
		{"DD", pad2(t.Day())},
		{"hh", pad2(t.Hour())},
		{"mm", pad2(t.Minute())},
		{"ss", pad2(t.Second())},
	}

	out := template
	for _, r := range replacements {
		out = strings.Replace(out, r.token, r.value, 1)
	}
	return out, nil
}

// FormatDateStyle renders d in one of the locale's named styles:
// short, medium, long or full.
func FormatDateStyle(p locale.Provider, d any, style string) (string, error) {
	layout, ok := p.DateLayout(style)
	if !ok {
		return "", errors.New("DATE-0003", map[string]any{"Style": style})
	}
	t, err := ToTime(p, d)
	if err != nil {
		return "", err
	}
	return p.FormatDate(t, layout), nil
}

// ToTime coerces d to a time in the provider's zone. Strings are parsed
// leniently, honouring the provider's day/month order for ambiguous dates;
// numbers are epoch milliseconds.
func ToTime(p locale.Provider, d any) (time.Time, error) {
	loc := p.Location()

	switch v := d.(type) {
	case time.Time:
		return v.In(loc), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, unsupported(d)
		}
		return v.In(loc), nil
	case string:
		t, err := dateparse.ParseIn(strings.TrimSpace(v), loc, dateparse.PreferMonthFirst(!p.DayFirst()))
		if err != nil {
			return time.Time{}, errors.New("DATE-0001", map[string]any{"Input": v}).WithCause(err)
		}
		return t.In(loc), nil
	case int:
		return time.UnixMilli(int64(v)).In(loc), nil
	case int64:
		return time.UnixMilli(v).In(loc), nil
	case int32:
		return time.UnixMilli(int64(v)).In(loc), nil
	case uint64:
		if v > math.MaxInt64 {
			return time.Time{}, errors.New("DATE-0001", map[string]any{"Input": v})
		}
		return time.UnixMilli(int64(v)).In(loc), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt64 {
			return time.Time{}, errors.New("DATE-0001", map[string]any{"Input": v})
		}
		return time.UnixMilli(int64(v)).In(loc), nil
	}
	return time.Time{}, unsupported(d)
}

func unsupported(d any) error {
	return errors.New("DATE-0002", map[string]any{"Got": fmt.Sprintf("%T", d)})
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
