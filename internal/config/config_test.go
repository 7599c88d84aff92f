package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/moraine/internal/brand"
)

const sampleHCL = `
schema_version = "1.0"

dashboard {
  api_key     = "secret-key"
  org_id      = "123456"
  max_retries = 10
  timeout     = "15s"
  rate_limit  = 5
}

input {
  objects_csv = "objects.csv"
  rules_csv   = "rules.csv"
}

networks  = ["Branch-01", "Branch-02"]
overwrite = true
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, suffix := range []string{"_API_KEY", "_ORG_ID", "_BASE_URL"} {
		t.Setenv(brand.ConfigEnvPrefix+suffix, "")
		os.Unsetenv(brand.ConfigEnvPrefix + suffix)
	}
}

func TestLoadFileHCL(t *testing.T) {
	cleanEnv(t)
	path := writeTemp(t, "moraine.hcl", sampleHCL)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Dashboard.APIKey)
	assert.Equal(t, "123456", cfg.Dashboard.OrgID)
	assert.Equal(t, 10, cfg.Dashboard.MaxRetries)
	assert.Equal(t, 5, cfg.Dashboard.RateLimit)
	assert.Equal(t, 15*time.Second, cfg.Dashboard.TimeoutDuration())
	assert.Equal(t, brand.DefaultBaseURL, cfg.Dashboard.BaseURL, "default base URL applied")
	assert.Equal(t, []string{"Branch-01", "Branch-02"}, cfg.Networks)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "objects.csv", cfg.Input.ObjectsCSV)
	assert.Equal(t, "rules.csv", cfg.Input.RulesCSV)
}

func TestLoadFileJSON(t *testing.T) {
	cleanEnv(t)
	path := writeTemp(t, "moraine.json", `{
  "schema_version": "1.0",
  "dashboard": {"api_key": "k", "org_id": "1"}
}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.Dashboard.APIKey)
	assert.Equal(t, 25, cfg.Dashboard.MaxRetries, "default retry budget")
	assert.Equal(t, "policy_objects.csv", cfg.Input.ObjectsCSV)
}

func TestLoadHCLEnvInterpolation(t *testing.T) {
	cleanEnv(t)
	t.Setenv("TEST_DASHBOARD_KEY", "from-env")

	path := writeTemp(t, "moraine.hcl", `
dashboard {
  api_key = env.TEST_DASHBOARD_KEY
  org_id  = "1"
}
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Dashboard.APIKey)
}

func TestEnvOverridesWin(t *testing.T) {
	cleanEnv(t)
	t.Setenv(brand.ConfigEnvPrefix+"_API_KEY", "override-key")
	t.Setenv(brand.ConfigEnvPrefix+"_ORG_ID", "999")

	path := writeTemp(t, "moraine.hcl", sampleHCL)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "override-key", cfg.Dashboard.APIKey)
	assert.Equal(t, "999", cfg.Dashboard.OrgID)
}

func TestLoadFileUnsupportedVersion(t *testing.T) {
	cleanEnv(t)
	path := writeTemp(t, "moraine.hcl", `
schema_version = "9.0"
dashboard {
  api_key = "k"
  org_id  = "1"
}
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config schema version")
}

func TestValidateMissingCredentials(t *testing.T) {
	cleanEnv(t)
	path := writeTemp(t, "moraine.hcl", `
dashboard {
  org_id = "1"
}
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidateBadValues(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.APIKey = "k"
	cfg.Dashboard.OrgID = "1"
	require.NoError(t, cfg.Validate())

	cfg.Dashboard.RateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Dashboard.APIKey = "k"
	cfg.Dashboard.OrgID = "1"
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Dashboard.APIKey = "k"
	cfg.Dashboard.OrgID = "1"
	cfg.Networks = []string{"Branch-01", "  "}
	assert.Error(t, cfg.Validate(), "blank network names rejected")
}

func TestValidateNetworkNamesFreeForm(t *testing.T) {
	// Dashboard network names carry no grammar; punctuation is fine.
	cfg := Default()
	cfg.Dashboard.APIKey = "k"
	cfg.Dashboard.OrgID = "1"
	cfg.Networks = []string{"HQ (Main)", "Außenstelle Süd", "Branch #3 / Lab"}
	require.NoError(t, cfg.Validate())
}

func TestTimeoutDurationFallback(t *testing.T) {
	d := &DashboardConfig{Timeout: "garbage"}
	assert.Equal(t, 30*time.Second, d.TimeoutDuration())
}
