package autoparam

import (
	"fmt"
	"strings"
)

// ParamMode controls how configured parameters merge with a link's existing query.
type ParamMode string

// Param mode constants.
const (
	// ParamModePreserve keeps existing parameters and only adds missing configured ones.
	ParamModePreserve ParamMode = "preserve"
	// ParamModeOverride adds missing configured ones and overwrites configured keys if present.
	ParamModeOverride ParamMode = "override"
	// ParamModeReplace drops every existing parameter and adds only configured ones.
	ParamModeReplace ParamMode = "replace"
)

// DefaultExemptAttribute opts a single <a> tag out of rewriting.
const DefaultExemptAttribute = "data-auto-param-exempt"

// ParseParamMode parses a mode name (case-insensitive).
// An empty string yields ParamModePreserve.
func ParseParamMode(s string) (ParamMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ParamModePreserve):
		return ParamModePreserve, nil
	case string(ParamModeOverride):
		return ParamModeOverride, nil
	case string(ParamModeReplace):
		return ParamModeReplace, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidParamMode, s)
}

// Param is one query parameter to add to external links.
type Param struct {
	Key   string
	Value string
}

// P builds a Param from a scalar value. Numbers and booleans render as
// their literal text ("42", "true").
func P(key string, value any) Param {
	return Param{Key: key, Value: fmt.Sprint(value)}
}

// Config describes which links to rewrite and how.
// The zero value is invalid: at least one Param is required.
type Config struct {
	// Params are applied in order. Order is visible in appended query strings.
	Params []Param

	// ParamMode defaults to ParamModePreserve when empty.
	ParamMode ParamMode

	// ExemptDataAttributes opt a tag out when present as an attribute name.
	// nil means []string{DefaultExemptAttribute}; an empty non-nil slice
	// disables tag exemption.
	ExemptDataAttributes []string

	// ExemptDomains lists hostnames that are never rewritten. "example.com"
	// matches example.com and all of its subdomains, as does "*.example.com".
	ExemptDomains []string
}

// Validate checks that the config can drive a rewrite.
func (c Config) Validate() error {
	if !c.hasParams() {
		return ErrNoParams
	}
	switch c.ParamMode {
	case "", ParamModePreserve, ParamModeOverride, ParamModeReplace:
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidParamMode, c.ParamMode)
}

func (c Config) hasParams() bool {
	for _, p := range c.Params {
		if p.Key != "" {
			return true
		}
	}
	return false
}

// withDefaults fills optional fields. Does not mutate the caller's slices.
func (c Config) withDefaults() Config {
	if c.ParamMode == "" {
		c.ParamMode = ParamModePreserve
	}
	if c.ExemptDataAttributes == nil {
		c.ExemptDataAttributes = []string{DefaultExemptAttribute}
	}
	return c
}

// Result is the outcome of rewriting one document.
type Result struct {
	HTML         string
	LinksScanned int // hrefs examined
	LinksChanged int // hrefs actually modified
}

// Changed reports whether any href was rewritten.
func (r Result) Changed() bool {
	return r.LinksChanged > 0
}
