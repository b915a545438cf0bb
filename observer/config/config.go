package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported projection store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete configuration for the observer
type Config struct {
	Chain    ChainConfig    `yaml:"chain"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	NATS     NATSConfig     `yaml:"nats"`
	Log      LogConfig      `yaml:"log"`
}

// ChainConfig holds the node subscription settings
type ChainConfig struct {
	WSURL          string        `yaml:"ws_url"`
	Query          string        `yaml:"query"`
	EventBuffer    int           `yaml:"event_buffer"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	MaxReconnects  int           `yaml:"max_reconnects"`
}

// DatabaseConfig selects and configures the projection store
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PendingLimit int           `yaml:"pending_limit"`
	RateLimit    int           `yaml:"rate_limit"`
}

// NATSConfig enables publishing applied events. An empty URL disables it.
type NATSConfig struct {
	URL           string        `yaml:"url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Enabled reports whether a NATS server is configured
func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

// LogConfig controls log level and optional file rotation
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns a configuration usable against a local node.
func DefaultConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			WSURL:          "ws://localhost:26657/websocket",
			Query:          "tm.event='Tx'",
			EventBuffer:    256,
			ReconnectDelay: 2 * time.Second,
			MaxReconnects:  10,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "observer.db",
		},
		API: APIConfig{
			Host:         "0.0.0.0",
			Port:         8089,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PendingLimit: 100,
			RateLimit:    100,
		},
		NATS: NATSConfig{
			SubjectPrefix: "continuum.sequencer",
			Timeout:       10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if wsURL := os.Getenv("OBSERVER_WS_URL"); wsURL != "" {
		c.Chain.WSURL = wsURL
	}
	if driver := os.Getenv("OBSERVER_DB_DRIVER"); driver != "" {
		c.Database.Driver = strings.ToLower(driver)
	}
	if path := os.Getenv("OBSERVER_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dsn := os.Getenv("OBSERVER_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if port := os.Getenv("OBSERVER_API_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &c.API.Port)
	}
	if natsURL := os.Getenv("OBSERVER_NATS_URL"); natsURL != "" {
		c.NATS.URL = natsURL
	}
	if level := os.Getenv("OBSERVER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Chain.WSURL == "" {
		return fmt.Errorf("websocket URL is required")
	}
	if !strings.HasPrefix(c.Chain.WSURL, "ws://") && !strings.HasPrefix(c.Chain.WSURL, "wss://") {
		return fmt.Errorf("websocket URL must use ws:// or wss://: %s", c.Chain.WSURL)
	}
	if c.Chain.Query == "" {
		c.Chain.Query = "tm.event='Tx'"
	}
	if c.Chain.EventBuffer <= 0 {
		c.Chain.EventBuffer = 256
	}
	if c.Chain.ReconnectDelay <= 0 {
		c.Chain.ReconnectDelay = 2 * time.Second
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("API port out of range: %d", c.API.Port)
	}
	if c.API.PendingLimit <= 0 {
		c.API.PendingLimit = 100
	}
	if c.API.RateLimit <= 0 {
		c.API.RateLimit = 100
	}

	if c.NATS.Enabled() {
		if !strings.HasPrefix(c.NATS.URL, "nats://") && !strings.HasPrefix(c.NATS.URL, "tls://") {
			return fmt.Errorf("NATS URL must use nats:// or tls://: %s", c.NATS.URL)
		}
		if c.NATS.SubjectPrefix == "" {
			c.NATS.SubjectPrefix = "continuum.sequencer"
		}
		if c.NATS.Timeout <= 0 {
			c.NATS.Timeout = 10 * time.Second
		}
	}

	return nil
}

// Addr returns the API listen address
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
