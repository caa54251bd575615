package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Account   AccountConfig   `yaml:"account"`
	Inference InferenceConfig `yaml:"inference"`
	Feed      FeedConfig      `yaml:"feed"`
	Storage   StorageConfig   `yaml:"storage"`
}

// AccountConfig seeds the local user profile.
type AccountConfig struct {
	UserID      string  `yaml:"user_id"`
	Username    string  `yaml:"username"`
	Plan        string  `yaml:"plan"`
	SeedBalance float64 `yaml:"seed_balance"`
	RiskPercent float64 `yaml:"risk_percent"` // percent per trade, e.g. 1.0
}

// InferenceConfig configures the vision model collaborator. The API key is
// never stored here; it comes from the environment.
type InferenceConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout string `yaml:"timeout"` // e.g. "60s"
}

func (c InferenceConfig) ParseTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// FeedConfig configures the simulated price feed.
type FeedConfig struct {
	Instrument     string  `yaml:"instrument"`
	ReferencePrice float64 `yaml:"reference_price"`
	Interval       string  `yaml:"interval"` // tick period, e.g. "1s"
	ReplayFile     string  `yaml:"replay_file,omitempty"`
}

func (c FeedConfig) ParseInterval() (time.Duration, error) {
	if c.Interval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(c.Interval)
}

// StorageConfig locates the journal database and profile documents.
type StorageConfig struct {
	JournalDB  string `yaml:"journal_db"`
	ProfileDir string `yaml:"profile_dir"`
}

// LoadFromFile loads and validates a YAML config.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the config as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Account.UserID == "" {
		return fmt.Errorf("account.user_id is required")
	}
	if c.Account.SeedBalance <= 0 {
		return fmt.Errorf("account.seed_balance must be positive")
	}
	if c.Account.RiskPercent <= 0 || c.Account.RiskPercent > 100 {
		return fmt.Errorf("account.risk_percent must be in (0, 100]")
	}
	if c.Inference.Model == "" {
		return fmt.Errorf("inference.model is required")
	}
	if _, err := c.Inference.ParseTimeout(); err != nil {
		return fmt.Errorf("inference.timeout: %w", err)
	}
	if c.Feed.Instrument == "" {
		return fmt.Errorf("feed.instrument is required")
	}
	if c.Feed.ReferencePrice <= 0 && c.Feed.ReplayFile == "" {
		return fmt.Errorf("feed.reference_price must be positive when not replaying")
	}
	if _, err := c.Feed.ParseInterval(); err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	if c.Storage.JournalDB == "" {
		return fmt.Errorf("storage.journal_db is required")
	}
	if c.Storage.ProfileDir == "" {
		return fmt.Errorf("storage.profile_dir is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			UserID:      "local",
			Username:    "trader",
			Plan:        "FREE",
			SeedBalance: 1000,
			RiskPercent: 1.0,
		},
		Inference: InferenceConfig{
			Model:   "gpt-4o-mini",
			Timeout: "60s",
		},
		Feed: FeedConfig{
			Instrument:     "XAUUSD",
			ReferencePrice: 2000,
			Interval:       "1s",
		},
		Storage: StorageConfig{
			JournalDB:  "./signals.sqlite",
			ProfileDir: "./profiles",
		},
	}
}

// APIKey resolves the vision model API key from the environment, loading a
// local .env first if present.
func APIKey() (string, error) {
	_ = godotenv.Load()
	for _, name := range []string{"OPENAI_API_KEY", "API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("API key not configured (set OPENAI_API_KEY)")
}
