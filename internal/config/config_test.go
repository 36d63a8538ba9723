package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"X_BEARER_TOKEN", "TWITTER_BEARER_TOKEN", "X_API_MAX_ATTEMPTS", "X_API_BASE_BACKOFF_MS", "X_API_RPS", "X_API_BURST"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Output, cfg.Output)
	assert.Contains(t, cfg.Presets, "fabry")
	assert.Contains(t, cfg.Presets, "glp1")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "xsearch.yaml")
	cfg := Default()
	cfg.Output.Format = "json"
	cfg.Presets["custom"] = []string{"#A"}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", got.Output.Format)
	assert.Equal(t, []string{"#A"}, got.Presets["custom"])
	assert.Error(t, Save("", cfg))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "xsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xlsx\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, 5, cfg.API.MaxAttempts)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TWITTER_BEARER_TOKEN", "legacy")
	t.Setenv("X_API_MAX_ATTEMPTS", "2")
	t.Setenv("X_API_RPS", "0.5")
	t.Setenv("X_API_BURST", "not-a-number")

	cfg := Default()
	cfg.ResolveEnv()
	assert.Equal(t, "legacy", cfg.Credentials.BearerToken)
	assert.Equal(t, 2, cfg.API.MaxAttempts)
	assert.Equal(t, 0.5, cfg.API.RPS)
	assert.Equal(t, 10, cfg.API.Burst)

	t.Setenv("X_BEARER_TOKEN", "primary")
	cfg = Default()
	cfg.ResolveEnv()
	assert.Equal(t, "primary", cfg.Credentials.BearerToken)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.Credentials.BearerToken = "tok"
		return c
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		errIs  error
	}{
		{"ok", func(*Config) {}, nil},
		{"missing token", func(c *Config) { c.Credentials.BearerToken = "" }, ErrMissingCredential},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }, nil},
		{"empty dir", func(c *Config) { c.Output.Dir = "" }, nil},
		{"empty preset", func(c *Config) { c.Presets["x"] = nil }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.name == "ok" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			}
		})
	}
}
