package brand

import (
	"os"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	b := Get()
	if b.Name == "" {
		t.Error("Brand name should not be empty")
	}
	// Version is a global variable, not in the struct
	if Version == "" {
		t.Error("Global Version should be initialized (to dev default)")
	}
	if Name == "" {
		t.Error("Global Name should be initialized")
	}
	if DefaultBaseURL == "" {
		t.Error("Global DefaultBaseURL should be initialized")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("1.0.0")
	if !strings.HasSuffix(ua, "/1.0.0") {
		t.Errorf("UserAgent should carry the version, got %s", ua)
	}

	uaDefault := UserAgent("")
	if !strings.HasSuffix(uaDefault, "/dev") {
		t.Errorf("UserAgent default should fall back to dev, got %s", uaDefault)
	}
}

func TestGetConfigDir(t *testing.T) {
	cleanEnv := func() {
		os.Unsetenv(ConfigEnvPrefix + "_PREFIX")
		os.Unsetenv(ConfigEnvPrefix + "_CONFIG_DIR")
	}
	cleanEnv()
	defer cleanEnv()

	if GetConfigDir() != DefaultConfigDir {
		t.Errorf("Expected default config dir %s, got %s", DefaultConfigDir, GetConfigDir())
	}

	os.Setenv(ConfigEnvPrefix+"_PREFIX", "/opt/moraine")
	if GetConfigDir() != "/opt/moraine/config" {
		t.Errorf("Expected prefixed config dir, got %s", GetConfigDir())
	}

	os.Setenv(ConfigEnvPrefix+"_CONFIG_DIR", "/etc/moraine")
	if GetConfigDir() != "/etc/moraine" {
		t.Errorf("Expected explicit config dir to win, got %s", GetConfigDir())
	}
}
