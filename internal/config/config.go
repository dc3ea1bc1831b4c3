// Package config resolves the options of a dependabot-docker run.
//
// Every option can come from four places, highest precedence first:
//
//  1. a command-line flag
//  2. an INPUT_<NAME> environment variable, which is how GitHub Actions
//     hands action inputs to a step (INPUT_INTERVAL, INPUT_EXCLUDE, ...)
//  3. an optional settings file in JSONC (JSON with comments), given by
//     --settings or INPUT_SETTINGS
//  4. built-in defaults
//
// Layering is done with github.com/spf13/viper. Comments in the settings
// file are stripped with github.com/tidwall/jsonc before viper reads it
// as plain JSON.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// Option keys. They double as flag names, settings-file keys and, upper
// cased with the INPUT_ prefix, environment variable names.
const (
	KeyInterval    = "interval"
	KeyConfig      = "config"
	KeyRoot        = "root"
	KeyExclude     = "exclude"
	KeyNoGitignore = "no-gitignore"
	KeyDryRun      = "dry-run"
	KeySettings    = "settings"
)

// EnvPrefix is the prefix GitHub Actions puts in front of input names.
const EnvPrefix = "INPUT"

// Options holds the resolved settings for one run.
type Options struct {
	// Interval is the schedule interval written into every new entry.
	Interval string

	// Root is the directory tree to scan.
	Root string

	// ConfigPath is the Dependabot config location. A relative path is
	// resolved against Root.
	ConfigPath string

	// Excludes are extra .gitignore-style patterns to skip during the scan.
	Excludes []string

	// NoGitignore disables .gitignore handling during the scan.
	NoGitignore bool

	// DryRun prints the resulting document instead of writing it.
	DryRun bool
}

// ConfigFile returns the Dependabot config path, resolved against Root
// when relative.
func (o *Options) ConfigFile() string {
	if filepath.IsAbs(o.ConfigPath) {
		return o.ConfigPath
	}
	return filepath.Join(o.Root, filepath.FromSlash(o.ConfigPath))
}

// RegisterFlags defines the option flags on fs. Flag defaults are empty
// so that an unset flag never shadows the environment or settings file;
// the real defaults live in Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyInterval, "", fmt.Sprintf("Schedule interval for new entries (default %q)", model.DefaultInterval))
	fs.String(KeyConfig, "", fmt.Sprintf("Dependabot config path, relative to --root (default %q)", model.DefaultConfigPath))
	fs.String(KeyRoot, "", "Directory tree to scan (default: current directory)")
	fs.StringSlice(KeyExclude, nil, "Additional .gitignore-style pattern to skip (repeatable)")
	fs.Bool(KeyNoGitignore, false, "Do not honour .gitignore and .git/info/exclude")
	fs.Bool(KeyDryRun, false, "Print the resulting config instead of writing it")
	fs.String(KeySettings, "", "Optional JSONC settings file")
}

// Load resolves Options from fs (may be nil), the environment, the
// optional settings file and defaults.
func Load(fs *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	v.SetDefault(KeyInterval, model.DefaultInterval)
	v.SetDefault(KeyConfig, model.DefaultConfigPath)
	v.SetDefault(KeyRoot, ".")

	// No key replacer: GitHub keeps hyphens in input variable names, so
	// the input "dry-run" arrives as INPUT_DRY-RUN.
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if path := v.GetString(KeySettings); path != "" {
		if err := readSettings(v, path); err != nil {
			return nil, err
		}
	}

	opts := &Options{
		Interval:    v.GetString(KeyInterval),
		Root:        v.GetString(KeyRoot),
		ConfigPath:  v.GetString(KeyConfig),
		Excludes:    splitList(v.Get(KeyExclude)),
		NoGitignore: v.GetBool(KeyNoGitignore),
		DryRun:      v.GetBool(KeyDryRun),
	}

	// The interval is written verbatim, so an explicitly empty value is
	// rejected rather than replaced. Empty INPUT_* variables never get
	// here: viper treats them as unset, which is how GitHub Actions passes
	// inputs the workflow did not set.
	if opts.Interval == "" {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s must not be empty", KeyInterval))
	}

	// An empty --root or --config means the default location.
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = model.DefaultConfigPath
	}

	return opts, nil
}

// readSettings merges a JSONC settings file into v.
func readSettings(v *viper.Viper, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to read settings file", err)
	}

	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(raw))); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid settings file %s", path), err)
	}
	return nil
}

// splitList normalises a list option. Flags and settings files yield
// slices; environment variables yield a single string with items
// separated by commas or newlines (GitHub's multi-line input form).
func splitList(value interface{}) []string {
	var items []string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		items = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' })
	case []string:
		items = v
	case []interface{}:
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
	default:
		items = []string{fmt.Sprint(v)}
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
