package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	PS3838   PS3838Config   `yaml:"ps3838"`
	Settings SettingsConfig `yaml:"settings"`
	Postgres PostgresConfig `yaml:"postgres"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"`      // usually set via TELEGRAM_BOT_TOKEN
	ChannelID     int64  `yaml:"channel_id"` // chat where tips arrive and replies go
	UpdateTimeout int    `yaml:"update_timeout"`
}

type PS3838Config struct {
	BaseURL  string        `yaml:"base_url"`
	Username string        `yaml:"username"` // usually set via PS3838_USERNAME
	Password string        `yaml:"password"` // usually set via PS3838_PASSWORD
	Timeout  time.Duration `yaml:"timeout"`
}

type SettingsConfig struct {
	Path string `yaml:"path"` // operator settings file (JSON)
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // optional placement journal; empty disables it
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	defaultBaseURL       = "https://api.ps3838.com"
	defaultTimeout       = 10 * time.Second
	defaultUpdateTimeout = 60
	defaultSettingsPath  = "settings.json"
	defaultHealthPort    = 8080
	defaultReadHeaderTO  = 5 * time.Second
)

// Load reads the YAML config, applies environment overrides for secrets and
// fills defaults. A missing file is not an error: the service can run on
// defaults plus environment alone.
func Load(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnv()
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHANNEL_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChannelID = id
		}
	}
	if v := os.Getenv("PS3838_API_URL"); v != "" {
		c.PS3838.BaseURL = v
	}
	if v := os.Getenv("PS3838_USERNAME"); v != "" {
		c.PS3838.Username = v
	}
	if v := os.Getenv("PS3838_PASSWORD"); v != "" {
		c.PS3838.Password = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.PS3838.BaseURL == "" {
		c.PS3838.BaseURL = defaultBaseURL
	}
	if c.PS3838.Timeout <= 0 {
		c.PS3838.Timeout = defaultTimeout
	}
	if c.Telegram.UpdateTimeout <= 0 {
		c.Telegram.UpdateTimeout = defaultUpdateTimeout
	}
	if c.Settings.Path == "" {
		c.Settings.Path = defaultSettingsPath
	}
	if c.Health.Port <= 0 {
		c.Health.Port = defaultHealthPort
	}
	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = defaultReadHeaderTO
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the startup-fatal requirements: bot credentials, channel and
// sportsbook credentials must be present.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required: set telegram.token or TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.ChannelID == 0 {
		return fmt.Errorf("telegram channel id is required: set telegram.channel_id or TELEGRAM_CHANNEL_ID")
	}
	if c.PS3838.Username == "" || c.PS3838.Password == "" {
		return fmt.Errorf("sportsbook credentials are required: set PS3838_USERNAME and PS3838_PASSWORD")
	}
	return nil
}
