package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	autoparam "github.com/newgentdigital/go-autoparam"
	"github.com/newgentdigital/go-autoparam/internal/fileutil"
	"github.com/newgentdigital/go-autoparam/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrEmptyConfigName   = errors.New("config name cannot be empty")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidParamValue = errors.New("param value must be a string, number, or boolean")
	ErrInvalidParam      = errors.New("param must be in key=value form")
	ErrInvalidWorkers    = errors.New("invalid worker count")
	ErrInvalidExtension  = errors.New("invalid file extension")
)

// Field length limits.
const (
	MaxParamKeyLength   = 256
	MaxParamValueLength = 2048 // Browser URL limit
	MaxAttributeLength  = 100
	MaxDomainLength     = 253 // RFC 1035
	MaxPathLength       = 4096
	MaxAddrLength       = 255
	MaxWorkers          = 64
)

// Config holds all configuration for link rewriting.
type Config struct {
	Params               yamlutil.OrderedMap `yaml:"params"`
	ParamMode            string              `yaml:"paramMode"`
	ExemptDataAttributes []string            `yaml:"exemptDataAttributes"`
	ExemptDomains        []string            `yaml:"exemptDomains"`
	Input                InputConfig         `yaml:"input"`
	Workers              int                 `yaml:"workers"` // 0 = auto
	Serve                ServeConfig         `yaml:"serve"`
}

// InputConfig defines which files the rewrite and check commands visit.
type InputConfig struct {
	Dir        string   `yaml:"dir"`        // Default build output directory (empty = must specify)
	Extensions []string `yaml:"extensions"` // Default: [".html"]
}

// ServeConfig defines the static preview server.
type ServeConfig struct {
	Addr    string `yaml:"addr"`    // Listen address (default ":8080")
	Root    string `yaml:"root"`    // Directory to serve (fallback: input.dir)
	Metrics bool   `yaml:"metrics"` // Expose /metrics
}

// DefaultAddr is the serve listen address when none is configured.
const DefaultAddr = ":8080"

// DefaultConfig returns a configuration with no params and default options.
// Empty fields keep their zero value so environment variables can fill
// them: an empty ParamMode means preserve, an empty Serve.Addr DefaultAddr.
func DefaultConfig() *Config {
	return &Config{}
}

// ListenAddr returns Serve.Addr or DefaultAddr.
func (c *Config) ListenAddr() string {
	if c.Serve.Addr == "" {
		return DefaultAddr
	}
	return c.Serve.Addr
}

// Validate checks field formats and lengths. It does not require params,
// since those may still arrive from flags or the environment; see
// RewriteConfig for the complete check.
func (c *Config) Validate() error {
	for _, kv := range c.Params {
		if err := validateFieldLength("params key", kv.Key, MaxParamKeyLength); err != nil {
			return err
		}
		value, err := scalarString(kv.Value)
		if err != nil {
			return fmt.Errorf("params.%s: %w", kv.Key, err)
		}
		if err := validateFieldLength("params."+kv.Key, value, MaxParamValueLength); err != nil {
			return err
		}
	}

	if _, err := autoparam.ParseParamMode(c.ParamMode); err != nil {
		return fmt.Errorf("paramMode: %w", err)
	}

	for i, attr := range c.ExemptDataAttributes {
		if err := validateFieldLength(fmt.Sprintf("exemptDataAttributes[%d]", i), attr, MaxAttributeLength); err != nil {
			return err
		}
	}
	for i, domain := range c.ExemptDomains {
		if err := validateFieldLength(fmt.Sprintf("exemptDomains[%d]", i), domain, MaxDomainLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("input.dir", c.Input.Dir, MaxPathLength); err != nil {
		return err
	}
	for _, ext := range c.Input.Extensions {
		if _, err := fileutil.NormalizeExtension(ext); err != nil {
			return fmt.Errorf("%w: input.extensions %q: %v", ErrInvalidExtension, ext, err)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers %d (must be between 0 and %d)", ErrInvalidWorkers, c.Workers, MaxWorkers)
	}

	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("serve.root", c.Serve.Root, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// RewriteConfig converts c into the library config and validates it.
// Returns autoparam.ErrNoParams when no param is configured.
func (c *Config) RewriteConfig() (autoparam.Config, error) {
	if err := c.Validate(); err != nil {
		return autoparam.Config{}, err
	}

	mode, err := autoparam.ParseParamMode(c.ParamMode)
	if err != nil {
		return autoparam.Config{}, err
	}

	params := make([]autoparam.Param, 0, len(c.Params))
	for _, kv := range c.Params {
		value, err := scalarString(kv.Value)
		if err != nil {
			return autoparam.Config{}, fmt.Errorf("params.%s: %w", kv.Key, err)
		}
		params = append(params, autoparam.Param{Key: kv.Key, Value: value})
	}

	rc := autoparam.Config{
		Params:               params,
		ParamMode:            mode,
		ExemptDataAttributes: c.ExemptDataAttributes,
		ExemptDomains:        c.ExemptDomains,
	}
	if err := rc.Validate(); err != nil {
		return autoparam.Config{}, err
	}
	return rc, nil
}

// SetParam sets key to value, replacing an existing entry in place.
func (c *Config) SetParam(key, value string) {
	for i := range c.Params {
		if c.Params[i].Key == key {
			c.Params[i].Value = value
			return
		}
	}
	c.Params = append(c.Params, yamlutil.KeyValue{Key: key, Value: value})
}

// ParseParam splits "key=value". The value may be empty; the key may not.
func ParseParam(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidParam, s)
	}
	return key, value, nil
}

// scalarString renders a decoded YAML scalar as its literal text.
func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrInvalidParamValue, v)
	}
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/autoparam/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "autoparam", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
