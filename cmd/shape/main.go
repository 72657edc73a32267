package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sambeau/shapekit/config"
	"github.com/sambeau/shapekit/pkg/locale"
)

// Version information, set at build time via -ldflags
var (
	Version = "dev"     // -X main.Version=$(git describe --tags --always)
	Commit  = "unknown" // -X main.Commit=$(git rev-parse --short HEAD)
)

// stdin is read when a command is given no input file.
var stdin io.Reader = os.Stdin

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command gets: resolved config, its locale and a logger.
type env struct {
	cfg    *config.Config
	locale *locale.Locale
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands map[string]command

// commands is filled in init to avoid an initialization cycle: the run
// functions look up their own usage strings in this map.
func init() {
	commands = map[string]command{
		"remap":  {"remap [--in FILE] [--lazy] SELECTOR...", runRemap},
		"sync":   {"sync FROM TO", runSync},
		"get":    {"get PATH [FILE]", runGet},
		"date":   {"date [--template T | --style S] [VALUE]", runDate},
		"number": {"number [--digits N] VALUE...", runNumber},
		"split":  {"split [--sep S | --pattern RE] [--keep-empty] [--drop-blank] STRING", runSplit},
		"join":   {"join [--sep S] [--keep-falsy] ITEM...", runJoin},
		"brief":  {"brief [--max N] [--ellipsis E] STRING", runBrief},
		"pick":   {"pick [--multiple] [--accept LIST]", runPick},
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("shape", flag.ContinueOnError)
	flags.SetOutput(io.Discard) // Suppress default -h output

	var (
		configPath  = flags.String("config", "", "Path to config file")
		profile     = flags.String("profile", "", "Profile to apply")
		localeTag   = flags.String("locale", "", "Override locale tag")
		timezone    = flags.String("tz", "", "Override time zone")
		verbose     = flags.Bool("verbose", false, "Log at debug level")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}

	if *showVersion {
		fmt.Fprintf(stdout, "shape version %s (%s)\n", Version, Commit)
		return nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return fmt.Errorf("missing command")
	}
	name := rest[0]
	cmd, ok := commands[name]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", name)
	}

	// Set up signal handling so a pending pick can be abandoned
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configFile, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if *profile != "" {
		if err := config.ApplyProfile(cfg, *profile); err != nil {
			return fmt.Errorf("applying profile %q: %w", *profile, err)
		}
	}

	// Apply CLI overrides
	if *localeTag != "" {
		cfg.Locale.Tag = *localeTag
	}
	if *timezone != "" {
		cfg.Locale.Timezone = *timezone
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	for _, warning := range config.Warnings(cfg) {
		fmt.Fprintf(stderr, "warning: %s\n", warning)
	}

	logger, closeLog, err := newLogger(cfg.Logging, stdout, stderr)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer closeLog()

	loc, err := cfg.Locale.Provider()
	if err != nil {
		return err
	}

	logger.Debug("running command",
		zap.String("command", name),
		zap.String("config", configFile),
		zap.String("locale", loc.Tag().String()),
		zap.String("timezone", loc.Location().String()))

	e := &env{cfg: cfg, locale: loc, log: logger, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, rest[1:]); err != nil {
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		return err
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `shape - Reshape records and format values

Usage:
  shape [options] <command> [command options] [args]

Options:
  --config PATH      Path to config file (default: auto-detect)
  --profile NAME     Apply a profile from config
  --locale TAG       Override locale (e.g. en-GB)
  --tz ZONE          Override time zone (e.g. UTC, Europe/Paris)
  --verbose          Log at debug level
  --version          Show version
  --help             Show this help

Commands:
`)
	for _, name := range []string{"remap", "sync", "get", "date", "number", "split", "join", "brief", "pick"} {
		fmt.Fprintf(w, "  shape %s\n", commands[name].usage)
	}
	fmt.Fprintf(w, `
Records are read as JSON or YAML from FILE or standard input and written as YAML.

Config Resolution:
  1. --config flag
  2. SHAPE_CONFIG environment variable
  3. ./shape.yaml
  4. ~/.config/shape/shape.yaml
  (defaults when none is found)

Examples:
  shape remap name gender:g < person.json
  shape get address.city person.yaml
  shape --locale de-DE number --digits 2 1234.5678
  shape date --template "YYYY/MM/DD" 2024-03-05
  shape brief --max 8 "Hello, this is a test for briefString!"

`)
}
