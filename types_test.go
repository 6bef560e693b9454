package autoparam

import (
	"errors"
	"testing"
)

func TestParseParamMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ParamMode
		wantErr error
	}{
		{"", ParamModePreserve, nil},
		{"preserve", ParamModePreserve, nil},
		{" Override ", ParamModeOverride, nil},
		{"REPLACE", ParamModeReplace, nil},
		{"merge", "", ErrInvalidParamMode},
	}

	for _, tt := range tests {
		got, err := ParseParamMode(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseParamMode(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseParamMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		want  string
	}{
		{"text", "text"},
		{42, "42"},
		{int64(-7), "-7"},
		{3.5, "3.5"},
		{true, "true"},
		{false, "false"},
	}

	for _, tt := range tests {
		if got := P("k", tt.value); got.Value != tt.want || got.Key != "k" {
			t.Errorf("P(k, %v) = %+v, want value %q", tt.value, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	params := []Param{{Key: "a", Value: "1"}}

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{Params: params}, nil},
		{"explicit mode", Config{Params: params, ParamMode: ParamModeReplace}, nil},
		{"empty value allowed", Config{Params: []Param{{Key: "a"}}}, nil},
		{"nil params", Config{}, ErrNoParams},
		{"only empty keys", Config{Params: []Param{{Value: "1"}}}, ErrNoParams},
		{"unknown mode", Config{Params: params, ParamMode: "Preserve"}, ErrInvalidParamMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	got := Config{Params: []Param{{Key: "a"}}}.withDefaults()
	if got.ParamMode != ParamModePreserve {
		t.Errorf("ParamMode = %q, want %q", got.ParamMode, ParamModePreserve)
	}
	if len(got.ExemptDataAttributes) != 1 || got.ExemptDataAttributes[0] != DefaultExemptAttribute {
		t.Errorf("ExemptDataAttributes = %v, want [%s]", got.ExemptDataAttributes, DefaultExemptAttribute)
	}

	disabled := Config{Params: []Param{{Key: "a"}}, ExemptDataAttributes: []string{}}.withDefaults()
	if disabled.ExemptDataAttributes == nil || len(disabled.ExemptDataAttributes) != 0 {
		t.Errorf("empty ExemptDataAttributes = %v, want kept empty", disabled.ExemptDataAttributes)
	}
}
