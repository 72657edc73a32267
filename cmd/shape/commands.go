package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	shapeerrors "github.com/sambeau/shapekit/pkg/errors"
	"github.com/sambeau/shapekit/pkg/format"
	"github.com/sambeau/shapekit/pkg/picker"
	"github.com/sambeau/shapekit/pkg/shape"
	"github.com/sambeau/shapekit/pkg/textutil"
)

// newDialog is replaced in tests.
var newDialog = func(w io.Writer) picker.Dialog {
	return picker.NewTerminalDialog(w)
}

func newFlags(name string) *flag.FlagSet {
	flags := flag.NewFlagSet("shape "+name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

func parseFlags(flags *flag.FlagSet, name string, args []string) error {
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("usage: shape %s: %w", commands[name].usage, err)
	}
	return nil
}

// readRecord loads a record from path, or standard input when path is "" or "-".
func readRecord(path string) (*shape.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return shape.ParseRecord(data)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func runRemap(ctx context.Context, e *env, args []string) error {
	flags := newFlags("remap")
	in := flags.String("in", "", "Record file (default: stdin)")
	lazy := flags.Bool("lazy", false, "Resolve fields through accessors")
	if err := parseFlags(flags, "remap", args); err != nil {
		return err
	}

	src, err := readRecord(*in)
	if err != nil {
		return err
	}

	selectors := make([]shape.Selector, 0, flags.NArg())
	for _, s := range flags.Args() {
		selectors = append(selectors, shape.ParseSelector(s))
	}

	out := shape.Remap(selectors, src)
	if *lazy {
		// Accessors read src on demand; resolve them for output.
		out = &shape.Record{}
		shape.RemapAccessors(selectors, src).Each(func(k string, get shape.Accessor) bool {
			out.Set(k, get())
			return true
		})
	}
	e.log.Debug("remapped record", zap.Int("selectors", len(selectors)), zap.Int("fields", out.Len()))
	return writeYAML(e.stdout, out)
}

func runSync(ctx context.Context, e *env, args []string) error {
	flags := newFlags("sync")
	if err := parseFlags(flags, "sync", args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: shape %s", commands["sync"].usage)
	}

	from, err := readRecord(flags.Arg(0))
	if err != nil {
		return err
	}
	to, err := readRecord(flags.Arg(1))
	if err != nil {
		return err
	}
	return writeYAML(e.stdout, shape.Sync(from, to))
}

func runGet(ctx context.Context, e *env, args []string) error {
	flags := newFlags("get")
	if err := parseFlags(flags, "get", args); err != nil {
		return err
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		return fmt.Errorf("usage: shape %s", commands["get"].usage)
	}

	rec, err := readRecord(flags.Arg(1))
	if err != nil {
		return err
	}
	v, err := shape.Get(flags.Arg(0), rec)
	if err != nil {
		return err
	}
	return writeYAML(e.stdout, v)
}

func runDate(ctx context.Context, e *env, args []string) error {
	flags := newFlags("date")
	template := flags.String("template", e.cfg.Date.Template, "Date template")
	style := flags.String("style", e.cfg.Date.Style, "Locale date style (short, medium, long, full)")
	if err := parseFlags(flags, "date", args); err != nil {
		return err
	}

	// Flags given on the command line win over the configured defaults.
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	switch {
	case set["template"] && set["style"]:
		return fmt.Errorf("usage: shape %s: --template and --style cannot be combined", commands["date"].usage)
	case set["template"]:
		*style = ""
	}

	var value any = time.Now()
	if flags.NArg() > 0 {
		value = strings.Join(flags.Args(), " ")
	}

	var (
		out string
		err error
	)
	if *style != "" {
		out, err = format.FormatDateStyle(e.locale, value, *style)
	} else {
		out, err = format.FormatDate(e.locale, value, *template)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, out)
	return nil
}

func runNumber(ctx context.Context, e *env, args []string) error {
	flags := newFlags("number")
	digits := flags.Int("digits", -1, "Fraction digits (default: from config, else plain)")
	if err := parseFlags(flags, "number", args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("usage: shape %s", commands["number"].usage)
	}

	fractionDigits := e.cfg.Number.FractionDigits
	if *digits >= 0 {
		fractionDigits = digits
	}

	for _, arg := range flags.Args() {
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return shapeerrors.Newf(shapeerrors.ClassFormat, "not a number: %q", arg).WithCause(err)
		}
		if fractionDigits == nil {
			fmt.Fprintln(e.stdout, format.FormatNumber(e.locale, n))
		} else {
			fmt.Fprintln(e.stdout, format.FormatNumberFixed(e.locale, n, *fractionDigits))
		}
	}
	return nil
}

func runSplit(ctx context.Context, e *env, args []string) error {
	opts, err := e.cfg.Split.Options()
	if err != nil {
		return err
	}

	flags := newFlags("split")
	sep := flags.String("sep", opts.Separator, "Separator")
	pattern := flags.String("pattern", e.cfg.Split.Pattern, "Separator regular expression")
	keepEmpty := flags.Bool("keep-empty", !opts.DropEmpty, "Keep empty parts")
	dropBlank := flags.Bool("drop-blank", opts.DropBlank, "Drop whitespace-only parts")
	if err := parseFlags(flags, "split", args); err != nil {
		return err
	}

	split := e.cfg.Split
	split.Separator = *sep
	split.Pattern = *pattern
	split.DropEmpty = !*keepEmpty
	split.DropBlank = *dropBlank
	if opts, err = split.Options(); err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	return writeYAML(e.stdout, textutil.ToArray(strings.Join(flags.Args(), " "), opts))
}

func runJoin(ctx context.Context, e *env, args []string) error {
	opts := e.cfg.Join.Options()

	flags := newFlags("join")
	sep := flags.String("sep", opts.Separator, "Separator")
	keepFalsy := flags.Bool("keep-falsy", !opts.DropFalsy, "Keep falsy items (\"\", 0, false, null)")
	if err := parseFlags(flags, "join", args); err != nil {
		return err
	}
	opts.Separator = *sep
	opts.DropFalsy = !*keepFalsy

	// Items are YAML scalars so that 0, false and null are falsy.
	items := make([]any, 0, flags.NArg())
	for _, arg := range flags.Args() {
		var v any
		if err := yaml.Unmarshal([]byte(arg), &v); err != nil {
			v = arg
		}
		items = append(items, v)
	}

	fmt.Fprintln(e.stdout, textutil.ToString(items, opts))
	return nil
}

func runBrief(ctx context.Context, e *env, args []string) error {
	flags := newFlags("brief")
	maxLength := flags.Int("max", 0, "Characters kept around the ellipsis (0: no limit)")
	ellipsis := flags.String("ellipsis", e.cfg.Brief.Ellipsis, "Connector placed in the middle")
	if err := parseFlags(flags, "brief", args); err != nil {
		return err
	}

	fmt.Fprintln(e.stdout, textutil.Brief(strings.Join(flags.Args(), " "), *maxLength, *ellipsis))
	return nil
}

func runPick(ctx context.Context, e *env, args []string) error {
	flags := newFlags("pick")
	multiple := flags.Bool("multiple", false, "Allow several files")
	accept := flags.String("accept", "", "Accepted types (.ext, type/*, type/subtype)")
	if err := parseFlags(flags, "pick", args); err != nil {
		return err
	}

	sel, err := picker.Pick(ctx, newDialog(e.stderr), picker.Options{Multiple: *multiple, Accept: *accept})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("pick cancelled")
		}
		return err
	}

	out := &shape.Record{}
	out.Set("value", sel.Value)
	files := make([]any, 0, len(sel.Files))
	for _, f := range sel.Files {
		files = append(files, shape.NewRecord(
			"name", f.Name,
			"path", f.Path,
			"size", f.Size,
			"type", f.Type,
			"modified", f.ModTime.In(e.locale.Location()).Format(time.RFC3339),
		))
	}
	if *multiple {
		out.Set("files", files)
	} else {
		out.Set("file", files[0])
	}
	e.log.Debug("picked files", zap.Int("count", len(sel.Files)))
	return writeYAML(e.stdout, out)
}
