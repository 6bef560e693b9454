package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/newgentdigital/go-autoparam/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath    string   // AUTOPARAM_CONFIG: config file name or path
	ParamMode     string   // AUTOPARAM_MODE: preserve, override, replace
	Params        string   // AUTOPARAM_PARAMS: k=v,k2=v2
	ExemptDomains []string // AUTOPARAM_EXEMPT_DOMAINS: comma-separated hosts
	InputDir      string   // AUTOPARAM_INPUT_DIR: default build output directory
	Workers       int      // AUTOPARAM_WORKERS: parallel workers
	Addr          string   // AUTOPARAM_ADDR: serve listen address
}

// knownEnvVars lists valid AUTOPARAM_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"AUTOPARAM_CONFIG":         true,
	"AUTOPARAM_MODE":           true,
	"AUTOPARAM_PARAMS":         true,
	"AUTOPARAM_EXEMPT_DOMAINS": true,
	"AUTOPARAM_INPUT_DIR":      true,
	"AUTOPARAM_WORKERS":        true,
	"AUTOPARAM_ADDR":           true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized AUTOPARAM_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("AUTOPARAM_CONFIG"),
		ParamMode:     os.Getenv("AUTOPARAM_MODE"),
		Params:        os.Getenv("AUTOPARAM_PARAMS"),
		ExemptDomains: splitList(os.Getenv("AUTOPARAM_EXEMPT_DOMAINS")),
		InputDir:      os.Getenv("AUTOPARAM_INPUT_DIR"),
		Addr:          os.Getenv("AUTOPARAM_ADDR"),
	}

	// Parse int for workers
	if workers := os.Getenv("AUTOPARAM_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized AUTOPARAM_* variables.
// Helps catch typos like AUTOPARAM_PARAM instead of AUTOPARAM_PARAMS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "AUTOPARAM_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero,
// so a config file wins over the environment. CLI flags are applied later
// via mergeParamFlags and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	if env.Params != "" && len(cfg.Params) == 0 {
		for _, pair := range splitList(env.Params) {
			key, value, err := config.ParseParam(pair)
			if err != nil {
				return fmt.Errorf("AUTOPARAM_PARAMS: %w", err)
			}
			cfg.SetParam(key, value)
		}
	}
	if env.ParamMode != "" && cfg.ParamMode == "" {
		cfg.ParamMode = env.ParamMode
	}
	if len(env.ExemptDomains) > 0 && len(cfg.ExemptDomains) == 0 {
		cfg.ExemptDomains = env.ExemptDomains
	}
	if env.InputDir != "" && cfg.Input.Dir == "" {
		cfg.Input.Dir = env.InputDir
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
	if env.Addr != "" && cfg.Serve.Addr == "" {
		cfg.Serve.Addr = env.Addr
	}
	return nil
}

// splitList splits a comma-separated value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
