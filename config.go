package main

import (
	"fmt"
	"os"

	"github.com/4O4-Not-F0und/key-relay/credential"
	"github.com/4O4-Not-F0und/key-relay/manager"
	"github.com/4O4-Not-F0und/key-relay/metrics"
	"github.com/4O4-Not-F0und/key-relay/selector"
	"gopkg.in/yaml.v3"
)

const (
	envLogLevel = "KEY_RELAY_LOG_LEVEL"
	envStrategy = "KEY_RELAY_STRATEGY"
	envAPIKey   = "KEY_RELAY_API_KEY"
)

type Config struct {
	LogLevel    string               `yaml:"log_level"`
	Metric      metrics.MetricConfig `yaml:"metric"`
	Credentials CredentialsConfig    `yaml:"credentials"`
}

type CredentialsConfig struct {
	// Optional. round_robin (default) or weighted
	Strategy selector.Strategy `yaml:"strategy"`

	// Optional. Legacy single key, used only when APIKeys is empty
	APIKey string `yaml:"api_key"`

	APIKeys []credential.EntryConfig `yaml:"api_keys"`

	// Optional. Max selection debug lines per second, 0 logs every selection
	LogSamplePerSec float64 `yaml:"log_sample_per_sec"`
}

func newConfig() *Config {
	return &Config{
		LogLevel: "info",
		Credentials: CredentialsConfig{
			Strategy: selector.DefaultStrategy,
			APIKeys:  make([]credential.EntryConfig, 0),
		},
	}
}

func loadConfig(configFile string) (cfg *Config, err error) {

	cfg = newConfig()
	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("config file '%s' not found", configFile)
			return nil, err
		}
		return nil, fmt.Errorf("read config file '%s' failed: %w", configFile, err)
	}

	err = yaml.Unmarshal(yamlFile, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse '%s' failed: %w", configFile, err)
	}

	err = cfg.applyEnv()
	if err != nil {
		return nil, err
	}
	return
}

// applyEnv overrides file values with any KEY_RELAY_* variables set.
func (c *Config) applyEnv() (err error) {
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(envStrategy); ok && v != "" {
		c.Credentials.Strategy, err = selector.ParseStrategy(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envStrategy, err)
		}
	}
	if v, ok := os.LookupEnv(envAPIKey); ok && v != "" {
		c.Credentials.APIKey = v
	}
	return
}

// newManager builds the selection manager for a loaded config, wiring the
// log and metrics observers.
func newManager(conf CredentialsConfig, opts ...manager.Option) (*manager.Manager, error) {
	observer := manager.MultiObserver{
		manager.NewLogObserver(nil, conf.LogSamplePerSec),
		metrics.NewSelectionObserver(nil),
	}
	opts = append([]manager.Option{
		manager.WithObserver(observer),
		manager.WithDefaultStrategy(conf.Strategy),
	}, opts...)

	m, err := manager.NewFromConfig(conf.APIKey, conf.APIKeys, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials config: %w", err)
	}
	return m, nil
}
