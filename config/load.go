package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/shapekit/pkg/format"
	"github.com/sambeau/shapekit/pkg/locale"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no config file was found.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, "", err
	}
	cfg.BaseDir = filepath.Dir(absPath)

	// Relative log files live next to the config
	if out := cfg.Logging.Output; out != "" && out != "stderr" && out != "stdout" && !filepath.IsAbs(out) {
		cfg.Logging.Output = filepath.Join(cfg.BaseDir, out)
	}

	return cfg, path, nil
}

// Parse decodes YAML configuration on top of Defaults().
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > SHAPE_CONFIG env > ./shape.yaml > ~/.config/shape/shape.yaml
// Only an explicit path or SHAPE_CONFIG must exist; otherwise "" means none found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("SHAPE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("SHAPE_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("shape.yaml"); err == nil {
		return "shape.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "shape", "shape.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// Validate checks the configuration and reports every problem at once.
// Call this after applying CLI overrides (like --profile).
func Validate(cfg *Config) error {
	var errs []string

	// Locale validation
	if _, err := language.Parse(cfg.Locale.Tag); err != nil {
		errs = append(errs, fmt.Sprintf("invalid locale tag: %q", cfg.Locale.Tag))
	}
	if _, err := locale.LoadZone(cfg.Locale.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("unknown timezone: %q", cfg.Locale.Timezone))
	}

	// Split validation
	if cfg.Split.Pattern != "" {
		if _, err := regexp.Compile(cfg.Split.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("split.pattern: %v", err))
		}
	}

	// Number validation
	if d := cfg.Number.FractionDigits; d != nil && (*d < 0 || *d > format.MaxFractionDigits) {
		errs = append(errs, fmt.Sprintf("invalid number.fraction_digits: %d (must be 0-%d)", *d, format.MaxFractionDigits))
	}

	// Date validation
	validStyles := map[string]bool{"": true, "short": true, "medium": true, "long": true, "full": true}
	if !validStyles[cfg.Date.Style] {
		errs = append(errs, fmt.Sprintf("invalid date style: %s (must be short, medium, long, or full)", cfg.Date.Style))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Split.Separator == "" && cfg.Split.Pattern == "" {
		warnings = append(warnings, "split.separator is empty - strings will be split into single characters")
	}
	if cfg.Date.Style != "" && cfg.Date.Template != format.DateTimeTemplate {
		warnings = append(warnings, "date.style is set - date.template will be ignored")
	}

	return warnings
}

// ApplyProfile applies a named profile to the configuration.
// Only non-zero values in the profile override the base config.
// Returns an error if the profile name doesn't exist.
func ApplyProfile(cfg *Config, profileName string) error {
	if cfg.Profiles == nil {
		return fmt.Errorf("no profiles defined in config")
	}

	p, ok := cfg.Profiles[profileName]
	if !ok {
		var names []string
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown profile %q (available: %s)", profileName, strings.Join(names, ", "))
	}

	if p.Locale.Tag != "" {
		cfg.Locale.Tag = p.Locale.Tag
	}
	if p.Locale.Timezone != "" {
		cfg.Locale.Timezone = p.Locale.Timezone
	}

	if p.Date.Template != "" {
		cfg.Date.Template = p.Date.Template
	}
	if p.Date.Style != "" {
		cfg.Date.Style = p.Date.Style
	}

	if p.Logging.Level != "" {
		cfg.Logging.Level = p.Logging.Level
	}
	if p.Logging.Format != "" {
		cfg.Logging.Format = p.Logging.Format
	}
	if p.Logging.Output != "" {
		out := p.Logging.Output
		if out != "stderr" && out != "stdout" && !filepath.IsAbs(out) && cfg.BaseDir != "" {
			out = filepath.Join(cfg.BaseDir, out)
		}
		cfg.Logging.Output = out
	}

	return nil
}
