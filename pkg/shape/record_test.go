package shape

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestRecord_SetKeepsPosition(t *testing.T) {
	r := NewRecord("a", 1, "b", 2, "c", 3)
	r.Set("a", 10)
	r.Delete("b")
	r.Set("d", 4)

	if diff := cmp.Diff([]string{"a", "c", "d"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if r.Value("a") != 10 {
		t.Errorf("expected a=10, got %v", r.Value("a"))
	}
	if r.Has("b") {
		t.Error("expected b to be deleted")
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 keys, got %d", r.Len())
	}
}

func TestRecord_ZeroValueAndNil(t *testing.T) {
	var r Record
	r.Set("x", 1)
	if r.Value("x") != 1 {
		t.Error("zero value record should accept writes")
	}

	var nilRec *Record
	if nilRec.Len() != 0 || nilRec.Has("x") || nilRec.Keys() != nil {
		t.Error("nil record should behave as empty")
	}
}

func TestRecord_String(t *testing.T) {
	r := NewRecord("name", "tom", "age", 3)
	if got := r.String(); got != "{name: tom, age: 3}" {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestNewRecord_PanicsOnOddArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewRecord("a")
}

func TestFromMap_SortsKeysAndNests(t *testing.T) {
	r := FromMap(map[string]any{"b": 1, "a": map[string]any{"c": []any{map[string]any{"d": 1}}}})
	if diff := cmp.Diff([]string{"a", "b"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Value("a").(*Record); !ok {
		t.Errorf("expected nested record, got %T", r.Value("a"))
	}
	if got := MustGet("a.c.0.d", r); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestParseRecord_PreservesOrder(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": {"inner": [1, "two", null]}, "mid": true, "pi": 3.14}`)

	r, err := ParseRecord(data)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid", "pi"}, r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"inner": []any{1, "two", nil}},
		"mid":   true,
		"pi":    3.14,
	}
	if diff := cmp.Diff(want, r.ToMap()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecord_YAML(t *testing.T) {
	r, err := ParseRecord([]byte("name: jack\nage: 3\n"))
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if r.Value("name") != "jack" || r.Value("age") != 3 {
		t.Errorf("unexpected record %v", r)
	}
}

func TestParseRecord_Errors(t *testing.T) {
	if _, err := ParseRecord([]byte("[1, 2]")); err == nil {
		t.Error("expected error for top-level array")
	}
	if _, err := ParseRecord([]byte("{a: [}")); err == nil {
		t.Error("expected error for malformed input")
	}

	r, err := ParseRecord(nil)
	if err != nil || r.Len() != 0 {
		t.Errorf("expected empty record for empty input, got %v, %v", r, err)
	}
}

func TestRecord_MarshalYAMLKeepsOrder(t *testing.T) {
	r := NewRecord("z", 1, "a", NewRecord("y", "x"))
	out, err := yaml.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := string(out)
	if strings.Index(got, "z:") > strings.Index(got, "a:") {
		t.Errorf("expected z before a, got:\n%s", got)
	}
	if !strings.Contains(got, "y: x") {
		t.Errorf("expected nested record, got:\n%s", got)
	}
}
