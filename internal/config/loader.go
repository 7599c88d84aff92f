package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"grimm.is/moraine/internal/brand"
)

// LoadFile loads a config file (HCL or JSON), applies defaults and
// environment overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		cfg, err = LoadJSON(data)
	case ".hcl":
		cfg, err = LoadHCL(data, path)
	default:
		// Try HCL first, fall back to JSON
		cfg, err = LoadHCL(data, path)
		if err != nil {
			cfg, err = LoadJSON(data)
		}
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadHCL loads config from HCL bytes. The eval context exposes the process
// environment as the `env` object, so credentials can be referenced as
// `api_key = env.MERAKI_DASHBOARD_API_KEY` without landing in the file.
func LoadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	// First, extract just the version to check support before full decode
	var versionProbe struct {
		SchemaVersion string   `hcl:"schema_version,optional"`
		Remain        hcl.Body `hcl:",remain"`
	}
	_ = gohcl.DecodeBody(file.Body, nil, &versionProbe)
	if err := checkVersion(versionProbe.SchemaVersion); err != nil {
		return nil, err
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL decode error: %s", diags.Error())
	}
	return &cfg, nil
}

// LoadJSON loads config from JSON bytes.
func LoadJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if err := checkVersion(cfg.SchemaVersion); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func checkVersion(version string) error {
	if version == "" {
		return nil // treated as current
	}
	for _, v := range SupportedVersions {
		if version == v {
			return nil
		}
	}
	return fmt.Errorf("unsupported config schema version %s (supported: %v)",
		version, SupportedVersions)
}

// evalContext exposes the environment to HCL expressions as `env.NAME`.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// applyEnvOverrides lets MORAINE_* variables override file values, so keys
// never need to be written to disk.
func applyEnvOverrides(cfg *Config) {
	prefix := brand.ConfigEnvPrefix
	if v := os.Getenv(prefix + "_API_KEY"); v != "" {
		cfg.Dashboard.APIKey = v
	}
	if v := os.Getenv(prefix + "_ORG_ID"); v != "" {
		cfg.Dashboard.OrgID = v
	}
	if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
		cfg.Dashboard.BaseURL = v
	}
}
