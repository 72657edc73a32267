package format

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/sambeau/shapekit/pkg/errors"
	"github.com/sambeau/shapekit/pkg/locale"
)

func TestFormatDate(t *testing.T) {
	utc := locale.MustNew("en-US", "UTC")
	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		template string
		expected string
	}{
		{"all tokens", "1970-01-01 08:10:00", "YYYY/MM/DD hh*mm*ss", "1970/01/01 08*10*00"},
		{"short year", ts, "YY-MM-DD", "24-03-05"},
		{"no tokens", ts, "plain text", "plain text"},
		{"first occurrence only", ts, "MM MM", "03 MM"},
		{"YYYY before YY", ts, "YYYY YY", "2024 24"},
		{"five Ys", ts, "YYYYY", "2024Y"},
		{"six Ys", ts, "YYYYYY", "202424"},
		{"time.Time pointer", &ts, DateTimeTemplate, "2024-03-05 07:08:09"},
		{"epoch millis int", 0, DateTimeTemplate, "1970-01-01 00:00:00"},
		{"epoch millis int64", int64(86_400_000), DateTemplate, "1970-01-02"},
		{"epoch millis float", 1500.9, TimeTemplate, "00:00:01"},
		{"iso string", "2024-03-05T07:08:09Z", DateTimeTemplate, "2024-03-05 07:08:09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatDate(utc, tt.input, tt.template)
			if err != nil {
				t.Fatalf("FormatDate failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("FormatDate(%v, %q) = %q, want %q", tt.input, tt.template, got, tt.expected)
			}
		})
	}
}

func TestFormatDate_ReadsInProviderZone(t *testing.T) {
	tokyo, err := locale.New("ja-JP", "Asia/Tokyo")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	ts := time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC)

	got, err := FormatDate(tokyo, ts, "YYYY-MM-DD hh")
	if err != nil {
		t.Fatalf("FormatDate failed: %v", err)
	}
	if got != "2024-01-02 05" {
		t.Errorf("expected Tokyo wall time, got %q", got)
	}
}

func TestFormatDate_DayFirstLocales(t *testing.T) {
	us := locale.MustNew("en-US", "UTC")
	gb := locale.MustNew("en-GB", "UTC")

	got, err := FormatDate(us, "02/03/2024", DateTemplate)
	if err != nil {
		t.Fatalf("FormatDate failed: %v", err)
	}
	if got != "2024-02-03" {
		t.Errorf("en-US should read month first, got %q", got)
	}

	got, err = FormatDate(gb, "02/03/2024", DateTemplate)
	if err != nil {
		t.Fatalf("FormatDate failed: %v", err)
	}
	if got != "2024-03-02" {
		t.Errorf("en-GB should read day first, got %q", got)
	}
}

func TestFormatDate_Errors(t *testing.T) {
	utc := locale.MustNew("en-US", "UTC")

	tests := []struct {
		name  string
		input any
		want  error
	}{
		{"unparseable string", "not a date at all", errors.ErrUnparseableDate},
		{"unsupported type", []int{1}, errors.ErrUnsupportedDate},
		{"nil", nil, errors.ErrUnsupportedDate},
		{"nil pointer", (*time.Time)(nil), errors.ErrUnsupportedDate},
		{"NaN", nanValue(), errors.ErrUnparseableDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatDate(utc, tt.input, DateTemplate)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFormatDateStyle(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		locale   string
		style    string
		expected string
	}{
		{"en-US", "short", "3/5/24"},
		{"en-US", "medium", "Mar 5, 2024"},
		{"en-US", "full", "Tuesday, March 5, 2024"},
		{"en-GB", "long", "5 March 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.style, func(t *testing.T) {
			got, err := FormatDateStyle(locale.MustNew(tt.locale, "UTC"), ts, tt.style)
			if err != nil {
				t.Fatalf("FormatDateStyle failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("FormatDateStyle(%q) = %q, want %q", tt.style, got, tt.expected)
			}
		})
	}
}

func TestFormatDateStyle_UnknownStyle(t *testing.T) {
	_, err := FormatDateStyle(plainProvider{}, time.Now(), "tiny")
	if !stderrors.Is(err, errors.ErrUnknownDateStyle) {
		t.Errorf("expected unknown style error, got %v", err)
	}

	got, err := FormatDateStyle(plainProvider{}, "2024-03-05", "iso")
	if err != nil || got != "2024-03-05" {
		t.Errorf("FormatDateStyle(iso) = %q, %v", got, err)
	}
}

func TestPad2(t *testing.T) {
	if pad2(7) != "07" || pad2(12) != "12" || pad2(0) != "00" {
		t.Error("pad2 should zero-pad single digits")
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
