// Package picker asks the user to choose one or more files through a host
// file-selection primitive and returns what was chosen.
package picker

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sambeau/shapekit/pkg/errors"
)

// Options controls a pick. The zero value picks a single file of any type.
type Options struct {
	Multiple bool   // allow more than one file
	Accept   string // comma-separated ".ext", "type/*" or "type/subtype" filters
}

// Dialog is the host file-selection primitive. Choose blocks until the user
// confirms or dismisses the dialog and returns the chosen paths; a dismissed
// dialog returns no paths.
type Dialog interface {
	Choose(ctx context.Context, opts Options) ([]string, error)
}

// File describes one chosen file.
type File struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	Type    string // MIME type guessed from the extension, if known
}

// Open opens the file for reading.
func (f File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Selection is the result of a pick.
type Selection struct {
	Files []File
	Value string // path of the first chosen file
}

// File returns the first chosen file, which is the whole selection when
// Options.Multiple is false.
func (s Selection) File() File {
	if len(s.Files) == 0 {
		return File{}
	}
	return s.Files[0]
}

// Pick shows dialog and resolves with the chosen files. It fails with
// errors.ErrNoSelection when nothing is chosen and with errors.ErrNotAccepted
// when a file does not match opts.Accept. If ctx ends first, ctx.Err() is
// returned.
func Pick(ctx context.Context, dialog Dialog, opts Options) (Selection, error) {
	type result struct {
		paths []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		paths, err := dialog.Choose(ctx, opts)
		done <- result{paths, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return Selection{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return Selection{}, res.err
	}
	if len(res.paths) == 0 {
		return Selection{}, errors.New("PICK-0001", nil)
	}
	if !opts.Multiple {
		res.paths = res.paths[:1]
	}

	filter := ParseAccept(opts.Accept)
	files := make([]File, 0, len(res.paths))
	for _, p := range res.paths {
		f, err := stat(p)
		if err != nil {
			return Selection{}, err
		}
		if !filter.Match(f) {
			return Selection{}, errors.New("PICK-0002", map[string]any{"File": f.Name, "Accept": opts.Accept})
		}
		files = append(files, f)
	}

	return Selection{Files: files, Value: res.paths[0]}, nil
}

func stat(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, errors.New("PICK-0003", map[string]any{"File": path}).WithCause(err)
	}
	if info.IsDir() {
		return File{}, errors.New("PICK-0003", map[string]any{"File": path})
	}
	name := filepath.Base(path)
	f := File{
		Name:    name,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Type:    typeByExtension(name),
	}

	// A chosen file must be readable, not just present.
	r, err := f.Open()
	if err != nil {
		return File{}, errors.New("PICK-0003", map[string]any{"File": path}).WithCause(err)
	}
	r.Close()
	return f, nil
}

func typeByExtension(name string) string {
	t := mime.TypeByExtension(filepath.Ext(name))
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return t
}

// AcceptFilter matches files against an accept list.
type AcceptFilter struct {
	extensions []string // lower-case, with leading dot
	types      []string // lower-case "type/subtype"
	wildcards  []string // lower-case "type/" prefixes
}

// ParseAccept reads a comma-separated accept list. An empty list accepts all.
func ParseAccept(accept string) AcceptFilter {
	var f AcceptFilter
	for _, item := range strings.Split(accept, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		switch {
		case item == "" || item == "*" || item == "*/*":
			continue
		case strings.HasPrefix(item, "."):
			f.extensions = append(f.extensions, item)
		case strings.HasSuffix(item, "/*"):
			f.wildcards = append(f.wildcards, strings.TrimSuffix(item, "*"))
		case strings.Contains(item, "/"):
			f.types = append(f.types, item)
		default:
			f.extensions = append(f.extensions, "."+item)
		}
	}
	return f
}

// Empty reports whether the filter accepts everything.
func (f AcceptFilter) Empty() bool {
	return len(f.extensions) == 0 && len(f.types) == 0 && len(f.wildcards) == 0
}

// Match reports whether f accepts file.
func (f AcceptFilter) Match(file File) bool {
	if f.Empty() {
		return true
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	for _, e := range f.extensions {
		if ext == e {
			return true
		}
	}
	typ := strings.ToLower(file.Type)
	if typ == "" {
		return false
	}
	for _, t := range f.types {
		if typ == t {
			return true
		}
	}
	for _, w := range f.wildcards {
		if strings.HasPrefix(typ, w) {
			return true
		}
	}
	return false
}
