package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "clockit"
	configFile = "config.json"

	// APIKeyEnv overrides the api key stored in the config file.
	APIKeyEnv = "CLOCKIT_API_KEY"

	ProviderToolkit = "toolkit"
	ProviderMemory  = "memory"
)

type Config struct {
	// Calendar is the Google Calendar that tasks are published to.
	Calendar string `json:"calendar"`
	// APIKey is the web api key of the identity toolkit project.
	APIKey   string `json:"api_key,omitempty"`
	Provider string `json:"provider"`
	Locale   string `json:"locale,omitempty"`
	SeedDemo *bool  `json:"seed_demo,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Calendar == "" {
		c.Calendar = "ClockIt"
	}
	if c.Provider == "" {
		c.Provider = ProviderToolkit
	}
	if c.SeedDemo == nil {
		seed := true
		c.SeedDemo = &seed
	}
}

// ShouldSeed reports whether the task store starts with the demo tasks.
func (c *Config) ShouldSeed() bool {
	return c.SeedDemo == nil || *c.SeedDemo
}

// Dir returns ~/.config/clockit, where every clockit file lives.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config at path. A missing file yields the defaults. The
// api key environment variable wins over the file.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.APIKey = key
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	switch cfg.Provider {
	case "", ProviderToolkit, ProviderMemory:
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
