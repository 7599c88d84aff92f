// Package config loads and validates the tool configuration from HCL (or
// JSON) files, with environment variable overrides for credentials.
package config

import (
	"fmt"
	"strings"
	"time"

	"grimm.is/moraine/internal/brand"
)

// CurrentSchemaVersion is the config schema written by this release.
const CurrentSchemaVersion = "1.0"

// SupportedVersions lists schema versions this release can read.
var SupportedVersions = []string{"1.0"}

// Config is the root configuration for a provisioning run.
type Config struct {
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	Dashboard *DashboardConfig `hcl:"dashboard,block" json:"dashboard,omitempty"`
	Input     *InputConfig     `hcl:"input,block" json:"input,omitempty"`

	// Networks restricts the run to appliance networks with these exact
	// names. Empty means every appliance network in the organization.
	Networks []string `hcl:"networks,optional" json:"networks,omitempty"`

	// Overwrite replaces each network's rule list instead of merging.
	Overwrite bool `hcl:"overwrite,optional" json:"overwrite,omitempty"`

	// SyslogDefault is applied to pushed rules that don't set it themselves.
	SyslogDefault bool `hcl:"syslog_default,optional" json:"syslog_default,omitempty"`

	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty"` // debug, info, warn, error
}

// DashboardConfig holds API connection settings.
type DashboardConfig struct {
	APIKey  string `hcl:"api_key,optional" json:"api_key,omitempty"`
	OrgID   string `hcl:"org_id,optional" json:"org_id,omitempty"`
	BaseURL string `hcl:"base_url,optional" json:"base_url,omitempty"`

	// MaxRetries bounds 429 retries per request (the platform throttles
	// aggressively during bulk runs).
	MaxRetries int `hcl:"max_retries,optional" json:"max_retries,omitempty"`

	Timeout string `hcl:"timeout,optional" json:"timeout,omitempty"` // per-request, e.g. "30s"

	// RateLimit is the client-side pacing budget in requests per second.
	RateLimit int `hcl:"rate_limit,optional" json:"rate_limit,omitempty"`
}

// InputConfig holds the CSV input locations.
type InputConfig struct {
	ObjectsCSV string `hcl:"objects_csv,optional" json:"objects_csv,omitempty"`
	RulesCSV   string `hcl:"rules_csv,optional" json:"rules_csv,omitempty"`
}

// Default returns a config with all defaults applied and no credentials.
func Default() *Config {
	cfg := &Config{SchemaVersion: CurrentSchemaVersion}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.Dashboard == nil {
		c.Dashboard = &DashboardConfig{}
	}
	if c.Dashboard.BaseURL == "" {
		c.Dashboard.BaseURL = brand.DefaultBaseURL
	}
	if c.Dashboard.MaxRetries == 0 {
		c.Dashboard.MaxRetries = 25
	}
	if c.Dashboard.Timeout == "" {
		c.Dashboard.Timeout = "30s"
	}
	if c.Dashboard.RateLimit == 0 {
		c.Dashboard.RateLimit = 8
	}
	if c.Input == nil {
		c.Input = &InputConfig{}
	}
	if c.Input.ObjectsCSV == "" {
		c.Input.ObjectsCSV = "policy_objects.csv"
	}
	if c.Input.RulesCSV == "" {
		c.Input.RulesCSV = "l3_outbound_rules.csv"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// TimeoutDuration parses the per-request timeout.
func (d *DashboardConfig) TimeoutDuration() time.Duration {
	t, err := time.ParseDuration(d.Timeout)
	if err != nil || t <= 0 {
		return 30 * time.Second
	}
	return t
}

// Validate checks the config for a runnable state.
func (c *Config) Validate() error {
	if c.Dashboard == nil {
		return fmt.Errorf("dashboard block is required")
	}
	if c.Dashboard.APIKey == "" {
		return fmt.Errorf("dashboard api_key is required (or set %s_API_KEY)", brand.ConfigEnvPrefix)
	}
	if c.Dashboard.OrgID == "" {
		return fmt.Errorf("dashboard org_id is required (or set %s_ORG_ID)", brand.ConfigEnvPrefix)
	}
	if c.Dashboard.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if c.Dashboard.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1 request/second")
	}
	if _, err := time.ParseDuration(c.Dashboard.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Dashboard.Timeout, err)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	// Network names are free-form on the dashboard; only blank entries are
	// rejected.
	for _, name := range c.Networks {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("network filter contains an empty name")
		}
	}
	return nil
}
