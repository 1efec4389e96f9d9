// Package config loads and saves the meeting-planner YAML configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvConfig    = "MEETING_PLANNER_CONFIG"
	EnvDB        = "MEETING_PLANNER_DB"
	EnvLogLevel  = "MEETING_PLANNER_LOG_LEVEL"
	EnvWebhook   = "MEETING_PLANNER_WEBHOOK"
	EnvAIProxy   = "AI_PROXY_URL"
	EnvAITimeout = "AI_TIMEOUT_SECONDS"
)

// AIConfig points at the scheduling-suggestion proxy.
type AIConfig struct {
	// ProxyURL is the endpoint receiving {prompt, responseSchema} requests.
	ProxyURL string `yaml:"proxy_url" json:"proxy_url"`
	// TimeoutSeconds bounds each proxy call.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path" json:"db_path"`

	// LogLevel is DEBUG, INFO or ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// WebhookURL receives S-89 assignment slips. Empty disables sending.
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`

	AI AIConfig `yaml:"ai" json:"ai"`

	// Location is the IANA zone used for calendar export (e.g. "America/Sao_Paulo").
	Location string `yaml:"location" json:"location"`

	// Hall is the calendar event location string.
	Hall string `yaml:"hall" json:"hall"`
}

const (
	defaultLogLevel  = "INFO"
	defaultAITimeout = 60
	defaultLocation  = "America/Sao_Paulo"
	defaultHall      = "Salão do Reino"
)

// DefaultPath is ~/.meeting-planner/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".meeting-planner", "config.yaml")
}

// DefaultDBPath is ~/.meeting-planner/meetings.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".meeting-planner", "meetings.db")
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:   DefaultDBPath(),
		LogLevel: defaultLogLevel,
		AI:       AIConfig{TimeoutSeconds: defaultAITimeout},
		Location: defaultLocation,
		Hall:     defaultHall,
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeout
	}
	if c.Location == "" {
		c.Location = defaultLocation
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		c.Location = defaultLocation
	}
	if c.Hall == "" {
		c.Hall = defaultHall
	}
}

// ApplyEnv overrides file values with non-empty environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWebhook); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(EnvAIProxy); v != "" {
		c.AI.ProxyURL = v
	}
	if v := os.Getenv(EnvAITimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.AI.TimeoutSeconds = n
		}
	}
}

// AITimeout returns the proxy timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// TimeLocation resolves Location, falling back to UTC.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600) and the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically through a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".meeting-planner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
