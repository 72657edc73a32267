package picker

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/peterh/liner"

	"github.com/sambeau/shapekit/pkg/errors"
)

// fakeDialog returns fixed paths.
type fakeDialog struct {
	paths []string
	err   error
	got   Options
}

func (d *fakeDialog) Choose(ctx context.Context, opts Options) ([]string, error) {
	d.got = opts
	return d.paths, d.err
}

// blockingDialog never returns until ctx ends.
type blockingDialog struct{}

func (blockingDialog) Choose(ctx context.Context, opts Options) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte(name), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return paths
}

func TestPick_Single(t *testing.T) {
	paths := writeFiles(t, "a.txt", "b.txt")
	dialog := &fakeDialog{paths: paths}

	sel, err := Pick(context.Background(), dialog, Options{})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if len(sel.Files) != 1 {
		t.Fatalf("expected a single file, got %d", len(sel.Files))
	}
	if sel.File().Name != "a.txt" || sel.File().Size != int64(len("a.txt")) {
		t.Errorf("unexpected file %+v", sel.File())
	}
	if sel.Value != paths[0] {
		t.Errorf("expected value %q, got %q", paths[0], sel.Value)
	}
}

func TestFile_Open(t *testing.T) {
	paths := writeFiles(t, "notes.txt")
	sel, err := Pick(context.Background(), &fakeDialog{paths: paths}, Options{})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}

	f, err := sel.File().Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("reading chosen file: %v", err)
	}
	if string(data) != "notes.txt" {
		t.Errorf("expected file contents %q, got %q", "notes.txt", data)
	}
}

func TestPick_Multiple(t *testing.T) {
	paths := writeFiles(t, "a.png", "b.PNG")
	dialog := &fakeDialog{paths: paths}

	sel, err := Pick(context.Background(), dialog, Options{Multiple: true, Accept: "image/*"})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	var names []string
	for _, f := range sel.Files {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"a.png", "b.PNG"}, names); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if !dialog.got.Multiple || dialog.got.Accept != "image/*" {
		t.Errorf("dialog did not receive options: %+v", dialog.got)
	}
}

func TestPick_Errors(t *testing.T) {
	paths := writeFiles(t, "notes.txt")
	boom := stderrors.New("dialog crashed")

	tests := []struct {
		name   string
		dialog Dialog
		opts   Options
		want   error
	}{
		{"nothing chosen", &fakeDialog{}, Options{}, errors.ErrNoSelection},
		{"not accepted", &fakeDialog{paths: paths}, Options{Accept: ".png,.jpg"}, errors.ErrNotAccepted},
		{"missing file", &fakeDialog{paths: []string{filepath.Join(t.TempDir(), "gone")}}, Options{}, errors.ErrUnreadableFile},
		{"directory", &fakeDialog{paths: []string{t.TempDir()}}, Options{}, errors.ErrUnreadableFile},
		{"dialog error", &fakeDialog{err: boom}, Options{}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pick(context.Background(), tt.dialog, tt.opts)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPick_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Pick(ctx, blockingDialog{}, Options{})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestAcceptFilter(t *testing.T) {
	tests := []struct {
		accept string
		file   string
		want   bool
	}{
		{"", "anything.bin", true},
		{"*/*", "anything.bin", true},
		{".txt", "a.TXT", true},
		{".txt, .md", "a.md", true},
		{"csv", "data.csv", true},
		{".txt", "a.md", false},
		{"image/*", "photo.jpg", true},
		{"image/*", "doc.pdf", false},
		{"application/pdf", "doc.pdf", true},
		{"image/png", "noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept+"|"+tt.file, func(t *testing.T) {
			f := File{Name: tt.file, Type: typeByExtension(tt.file)}
			if got := ParseAccept(tt.accept).Match(f); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.accept, tt.file, got, tt.want)
			}
		})
	}
}

// scriptedLines replays answers to successive prompts.
type scriptedLines struct {
	answers   []string
	errAtEnd  error
	prompts   []string
	completer liner.Completer
	closed    bool
}

func (s *scriptedLines) Prompt(p string) (string, error) {
	s.prompts = append(s.prompts, p)
	if len(s.answers) == 0 {
		return "", s.errAtEnd
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}
func (s *scriptedLines) SetCompleter(f liner.Completer) { s.completer = f }
func (s *scriptedLines) SetCtrlCAborts(bool)            {}
func (s *scriptedLines) Close() error                   { s.closed = true; return nil }

func TestTerminalDialog_Choose(t *testing.T) {
	tests := []struct {
		name     string
		answers  []string
		errAtEnd error
		opts     Options
		want     []string
	}{
		{"single", []string{" a.txt ", "ignored"}, io.EOF, Options{}, []string{"a.txt"}},
		{"multiple until blank", []string{"a", "b", "", "c"}, io.EOF, Options{Multiple: true}, []string{"a", "b"}},
		{"blank first line dismisses", []string{""}, io.EOF, Options{}, nil},
		{"ctrl-c dismisses", []string{"a"}, liner.ErrPromptAborted, Options{Multiple: true}, nil},
		{"ctrl-d dismisses", nil, io.EOF, Options{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := &scriptedLines{answers: tt.answers, errAtEnd: tt.errAtEnd}
			var out bytes.Buffer
			d := &TerminalDialog{Out: &out, open: func() lineReader { return lines }}

			got, err := d.Choose(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Choose failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("paths mismatch (-want +got):\n%s", diff)
			}
			if !lines.closed {
				t.Error("expected line reader to be closed")
			}
			if lines.completer == nil {
				t.Error("expected a completer to be installed")
			}
		})
	}
}

func TestTerminalDialog_PromptsAndInstructions(t *testing.T) {
	lines := &scriptedLines{answers: []string{"a", "b", ""}}
	var out bytes.Buffer
	d := &TerminalDialog{Out: &out, open: func() lineReader { return lines }}

	if _, err := d.Choose(context.Background(), Options{Multiple: true, Accept: ".txt"}); err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if diff := cmp.Diff([]string{PROMPT, CONTINUATION_PROMPT, CONTINUATION_PROMPT}, lines.prompts); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Accepted: .txt") {
		t.Errorf("expected accept list in instructions, got %q", out.String())
	}
}

func TestTerminalDialog_UnexpectedError(t *testing.T) {
	boom := stderrors.New("tty gone")
	lines := &scriptedLines{errAtEnd: boom}
	d := &TerminalDialog{Out: io.Discard, open: func() lineReader { return lines }}

	if _, err := d.Choose(context.Background(), Options{}); !stderrors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestTerminalDialog_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lines := &scriptedLines{answers: []string{"a"}}
	d := &TerminalDialog{Out: io.Discard, open: func() lineReader { return lines }}

	if _, err := d.Choose(ctx, Options{}); !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompletePath(t *testing.T) {
	paths := writeFiles(t, "report.txt", "report.png", "readme.md", ".hidden.txt")
	dir := filepath.Dir(paths[0])
	if err := os.Mkdir(filepath.Join(dir, "reports"), 0o755); err != nil {
		t.Fatal(err)
	}
	sep := string(filepath.Separator)

	got := completePath(filepath.Join(dir, "rep"), ParseAccept(".txt"))
	want := []string{
		filepath.Join(dir, "report.txt"),
		filepath.Join(dir, "reports") + sep,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("completion mismatch (-want +got):\n%s", diff)
	}

	got = completePath(dir+sep+".h", ParseAccept(""))
	if diff := cmp.Diff([]string{filepath.Join(dir, ".hidden.txt")}, got); diff != "" {
		t.Errorf("hidden completion mismatch (-want +got):\n%s", diff)
	}

	if got := completePath(filepath.Join(dir, "missing", "x"), ParseAccept("")); got != nil {
		t.Errorf("expected no completions for missing dir, got %v", got)
	}
}
