package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/4O4-Not-F0und/key-relay/credential"
	"github.com/4O4-Not-F0und/key-relay/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log_level: debug
metric:
  listen: ""
credentials:
  strategy: weighted
  api_keys:
    - key: sk-primary-000001
      weight: 3
      label: primary
    - key: sk-secondary-0001
      weight: 2
      label: secondary
    - sk-bare-key-00001
  log_sample_per_sec: 2
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), testConfig)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, selector.Weighted, cfg.Credentials.Strategy)
	assert.Equal(t, 2.0, cfg.Credentials.LogSamplePerSec)
	require.Len(t, cfg.Credentials.APIKeys, 3)
	assert.Equal(t, "sk-bare-key-00001", cfg.Credentials.APIKeys[2].Key)
	assert.Nil(t, cfg.Credentials.APIKeys[2].Weight)

	m, err := newManager(cfg.Credentials)
	require.NoError(t, err)
	assert.Equal(t, 6.0, m.TotalWeight())
	assert.Equal(t, selector.Weighted, m.DefaultStrategy())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "credentials:\n  api_key: sk-legacy\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, selector.RoundRobin, cfg.Credentials.Strategy)

	m, err := newManager(cfg.Credentials)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, "sk-legacy", m.Records()[0].Secret())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfig(filepath.Join(dir, "missing.yml"))
	require.ErrorContains(t, err, "not found")

	path := writeConfig(t, dir, "credentials:\n  strategy: bogus\n")
	_, err = loadConfig(path)
	require.ErrorIs(t, err, selector.ErrUnknownStrategy)

	path = writeConfig(t, dir, "credentials: [\n")
	_, err = loadConfig(path)
	require.ErrorContains(t, err, "parse")
}

func TestNewManagerRejectsInvalidPools(t *testing.T) {
	cases := []struct {
		content string
		want    error
	}{
		{"credentials: {}\n", credential.ErrEmptyPool},
		{"credentials:\n  api_keys:\n    - key: sk-a\n      weight: 0\n", credential.ErrInvalidWeight},
		{"credentials:\n  api_keys:\n    - {key: sk-a, label: dup}\n    - {key: sk-b, label: dup}\n", credential.ErrDuplicateLabel},
	}
	for _, tc := range cases {
		path := writeConfig(t, t.TempDir(), tc.content)
		cfg, err := loadConfig(path)
		require.NoError(t, err)

		_, err = newManager(cfg.Credentials)
		require.ErrorIs(t, err, tc.want, tc.content)
	}
}

func TestApplyEnv(t *testing.T) {
	path := writeConfig(t, t.TempDir(), testConfig)
	t.Setenv(envLogLevel, "warn")
	t.Setenv(envStrategy, "round_robin")
	t.Setenv(envAPIKey, "sk-from-env")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, selector.RoundRobin, cfg.Credentials.Strategy)
	assert.Equal(t, "sk-from-env", cfg.Credentials.APIKey)

	t.Setenv(envStrategy, "random")
	_, err = loadConfig(path)
	require.ErrorIs(t, err, selector.ErrUnknownStrategy)
}
