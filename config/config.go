package config

import (
	"regexp"

	"github.com/sambeau/shapekit/pkg/format"
	"github.com/sambeau/shapekit/pkg/locale"
	"github.com/sambeau/shapekit/pkg/textutil"
)

// Config represents the complete shape configuration
type Config struct {
	BaseDir  string                   `yaml:"-"` // Directory containing config file, empty when running on defaults
	Locale   LocaleConfig             `yaml:"locale"`
	Split    SplitConfig              `yaml:"split"`
	Join     JoinConfig               `yaml:"join"`
	Brief    BriefConfig              `yaml:"brief"`
	Number   NumberConfig             `yaml:"number"`
	Date     DateConfig               `yaml:"date"`
	Logging  LoggingConfig            `yaml:"logging"`
	Profiles map[string]ProfileConfig `yaml:"profiles"` // Named overrides selected with --profile
}

// ProfileConfig holds per-profile overrides
// All fields are optional - only non-zero values override the base config
type ProfileConfig struct {
	Locale  LocaleConfig  `yaml:"locale"`
	Date    DateConfig    `yaml:"date"`
	Logging LoggingConfig `yaml:"logging"`
}

// LocaleConfig selects the locale used for number and date formatting
type LocaleConfig struct {
	Tag      string `yaml:"tag"`      // BCP 47 tag, e.g. "en-US"
	Timezone string `yaml:"timezone"` // IANA zone, "Local" or "UTC"
}

// SplitConfig holds string splitter defaults
type SplitConfig struct {
	Separator string `yaml:"separator"`
	Pattern   string `yaml:"pattern"` // Regular expression; overrides separator when set
	DropEmpty bool   `yaml:"drop_empty"`
	DropBlank bool   `yaml:"drop_blank"` // Also drop whitespace-only parts
}

// JoinConfig holds sequence joiner defaults
type JoinConfig struct {
	Separator string `yaml:"separator"`
	DropFalsy bool   `yaml:"drop_falsy"`
}

// BriefConfig holds brief truncator defaults
type BriefConfig struct {
	Ellipsis string `yaml:"ellipsis"`
}

// NumberConfig holds number formatter defaults
type NumberConfig struct {
	FractionDigits *int `yaml:"fraction_digits"` // nil means plain locale formatting
}

// DateConfig holds date formatter defaults
type DateConfig struct {
	Template string `yaml:"template"`
	Style    string `yaml:"style"` // short, medium, long or full; overrides template when set
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	split := textutil.DefaultSplitOptions()
	join := textutil.DefaultJoinOptions()
	return &Config{
		Locale: LocaleConfig{
			Tag:      "en-US",
			Timezone: "Local",
		},
		Split: SplitConfig{
			Separator: split.Separator,
			DropEmpty: split.DropEmpty,
			DropBlank: split.DropBlank,
		},
		Join: JoinConfig{
			Separator: join.Separator,
			DropFalsy: join.DropFalsy,
		},
		Brief: BriefConfig{
			Ellipsis: textutil.DefaultEllipsis,
		},
		Date: DateConfig{
			Template: format.DateTimeTemplate,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Provider builds the locale provider described by the locale section.
func (c LocaleConfig) Provider() (*locale.Locale, error) {
	return locale.New(c.Tag, c.Timezone)
}

// Options converts the split section into splitter options. The pattern is
// compiled here; Validate reports a bad pattern before this is reached.
func (c SplitConfig) Options() (textutil.SplitOptions, error) {
	opts := textutil.SplitOptions{
		Separator: c.Separator,
		DropEmpty: c.DropEmpty,
		DropBlank: c.DropBlank,
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return opts, err
		}
		opts.Pattern = re
	}
	return opts, nil
}

// Options converts the join section into joiner options.
func (c JoinConfig) Options() textutil.JoinOptions {
	return textutil.JoinOptions{Separator: c.Separator, DropFalsy: c.DropFalsy}
}
