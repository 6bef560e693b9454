package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"

	autoparam "github.com/newgentdigital/go-autoparam"
	"github.com/newgentdigital/go-autoparam/internal/config"
	"github.com/newgentdigital/go-autoparam/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage            = errors.New("invalid usage")
	ErrNoInput          = errors.New("no input directory specified")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
	ErrFilesFailed      = errors.New("some files could not be rewritten")
	ErrPendingLinks     = errors.New("links missing configured params")
	ErrListen           = errors.New("failed to listen")
)

// parseError turns a flag parse failure into a usage error.
// helpRequested is true for -h/--help, which is not a failure.
func parseError(err error) (helpRequested bool, wrapped error) {
	if errors.Is(err, flag.ErrHelp) {
		return true, nil
	}
	return false, fmt.Errorf("%w: %v", ErrUsage, err)
}

// loadConfig builds the effective config.
// Precedence: CLI flags > config file > env vars > defaults.
func loadConfig(common *commonFlags, params *paramFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w%s", err, configHint(err))
		}
		cfg = loaded
	}

	if err := applyEnvConfig(envCfg, cfg); err != nil {
		return nil, err
	}
	if err := mergeParamFlags(params, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configHint extracts the searched paths from a not-found error.
func configHint(err error) string {
	if !errors.Is(err, config.ErrConfigNotFound) {
		return ""
	}
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return hints.ForConfigNotFound(nil)
	}
	return hints.ForConfigNotFound(strings.Split(tried, ", "))
}

// mergeParamFlags merges CLI flags into config. CLI values override config values.
func mergeParamFlags(f *paramFlags, cfg *config.Config) error {
	for _, p := range f.params {
		key, value, err := config.ParseParam(p)
		if err != nil {
			return err
		}
		cfg.SetParam(key, value)
	}
	if f.mode != "" {
		cfg.ParamMode = f.mode
	}
	if len(f.exemptAttrs) > 0 {
		cfg.ExemptDataAttributes = f.exemptAttrs
	}
	if len(f.exemptDomains) > 0 {
		cfg.ExemptDomains = f.exemptDomains
	}
	return nil
}

// mergeInputFlags merges file selection flags into config.
func mergeInputFlags(f *inputFlags, cfg *config.Config) error {
	if len(f.extensions) > 0 {
		cfg.Input.Extensions = f.extensions
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

// rewriteConfig converts cfg, attaching a hint when no params are set.
func rewriteConfig(cfg *config.Config) (autoparam.Config, error) {
	rc, err := cfg.RewriteConfig()
	if errors.Is(err, autoparam.ErrNoParams) {
		return rc, fmt.Errorf("%w%s", err, hints.ForNoParams())
	}
	return rc, err
}

// resolveInputDir determines the input directory from args or config.
func resolveInputDir(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.Dir != "" {
		return cfg.Input.Dir, nil
	}
	return "", ErrNoInput
}

// extensions returns the configured extensions or the library default.
func extensions(cfg *config.Config) []string {
	if len(cfg.Input.Extensions) > 0 {
		return cfg.Input.Extensions
	}
	return autoparam.DefaultExtensions
}

// newLogger builds the slog logger used by long-running modes.
func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, format)
}
