package picker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
)

const (
	PROMPT              = "file> "
	CONTINUATION_PROMPT = "   +> "
)

// lineReader is the part of *liner.State the dialog uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	SetCompleter(f liner.Completer)
	SetCtrlCAborts(aborts bool)
	Close() error
}

// TerminalDialog is a Dialog for terminals: the user types paths with Tab
// completion. A blank line ends a multiple selection; Ctrl+C, Ctrl+D or a
// blank first line dismisses the dialog.
type TerminalDialog struct {
	Out io.Writer // instructions are written here; nil means os.Stderr

	open func() lineReader
}

// NewTerminalDialog returns a TerminalDialog writing instructions to out.
func NewTerminalDialog(out io.Writer) *TerminalDialog {
	return &TerminalDialog{Out: out}
}

// Choose implements Dialog. The prompt cannot be interrupted, so a cancelled
// ctx is only noticed between lines.
func (d *TerminalDialog) Choose(ctx context.Context, opts Options) ([]string, error) {
	out := d.Out
	if out == nil {
		out = os.Stderr
	}
	open := d.open
	if open == nil {
		open = func() lineReader { return liner.NewLiner() }
	}

	line := open()
	defer line.Close()

	line.SetCtrlCAborts(true)
	filter := ParseAccept(opts.Accept)
	line.SetCompleter(func(input string) []string {
		return completePath(input, filter)
	})

	if opts.Multiple {
		fmt.Fprintln(out, "Enter one path per line, blank line to finish. Tab completes, Ctrl+C cancels.")
	} else {
		fmt.Fprintln(out, "Enter a path. Tab completes, Ctrl+C cancels.")
	}
	if opts.Accept != "" {
		fmt.Fprintf(out, "Accepted: %s\n", opts.Accept)
	}

	var paths []string
	prompt := PROMPT
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				// Dismissed: nothing is chosen, even in multiple mode.
				return nil, nil
			}
			return nil, fmt.Errorf("reading path: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return paths, nil
		}
		paths = append(paths, expandHome(input))
		if !opts.Multiple {
			return paths, nil
		}
		prompt = CONTINUATION_PROMPT
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// completePath lists entries of the directory named by input's prefix that
// start with its last element. Directories are always offered (with a
// trailing separator); files only when filter accepts them.
func completePath(input string, filter AcceptFilter) []string {
	dir, prefix := filepath.Split(input)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := os.ReadDir(expandHome(readDir))
	if err != nil {
		return nil
	}

	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if e.IsDir() {
			matches = append(matches, dir+name+string(filepath.Separator))
			continue
		}
		if filter.Match(File{Name: name, Type: typeByExtension(name)}) {
			matches = append(matches, dir+name)
		}
	}
	sort.Strings(matches)
	return matches
}
