package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &UserConfig{
		CurrentProfile: "staging",
		Profiles: map[string]Profile{
			"staging": {Host: "https://staging.test", Token: "tok", Output: "json"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Config file permissions stay private.
	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadUserConfigMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := LoadUserConfig()
	assert.Error(t, err)
}

func TestActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "https://default.test"},
			"prod":    {Host: "https://prod.test"},
		},
	}

	assert.Equal(t, "https://default.test", cfg.ActiveProfile("").Host)
	assert.Equal(t, "https://prod.test", cfg.ActiveProfile("prod").Host)
	assert.Equal(t, Profile{}, cfg.ActiveProfile("missing"))
}

func TestConfigDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".workhub"), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".workhub", "config.yaml"), ConfigPath())
}
