package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	SupersedeLatestSubmit = "latest_submit"
	SupersedeLastSettled  = "last_settled"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Forecast struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"forecast"`
	Dashboard struct {
		// Countries is the accepted country set; empty means free text.
		Countries        []string      `yaml:"countries"`
		MaxHorizonMonths int           `yaml:"max_horizon_months"`
		SupersedePolicy  string        `yaml:"supersede_policy" default:"latest_submit"`
		SessionTTL       time.Duration `yaml:"session_ttl" default:"30m"`
		SweepInterval    time.Duration `yaml:"sweep_interval" default:"1m"`
	} `yaml:"dashboard"`
	RateLimit struct {
		Enabled   bool          `yaml:"enabled" default:"true"`
		Backend   string        `yaml:"backend" default:"memory"`
		Burst     int           `yaml:"burst" default:"5"`
		PerMinute int           `yaml:"per_minute" default:"30"`
		Window    time.Duration `yaml:"window" default:"1m"`
		Redis     struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"econdash"`
		} `yaml:"redis"`
	} `yaml:"rate_limit"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"econdash.settlements"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
		Async        bool          `yaml:"async" default:"true"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	// Defaults go first so that explicit false/zero values in YAML win.
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment and re-validates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FORECAST_SERVICE_URL"); ok && v != "" {
		c.Forecast.BaseURL = v
	}
	if v, ok := lookup("COUNTRIES"); ok && v != "" {
		if strings.TrimSpace(v) == "*" {
			c.Dashboard.Countries = nil
		} else {
			c.Dashboard.Countries = splitList(v)
		}
	}
	if v, ok := lookup("SUPERSEDE_POLICY"); ok && v != "" {
		c.Dashboard.SupersedePolicy = v
	}
	if v, ok := lookup("HTTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.RateLimit.Redis.Addr = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Events.Brokers = splitList(v)
	}
	if v, ok := lookup("KAFKA_TOPIC"); ok && v != "" {
		c.Events.Topic = v
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Forecast.BaseURL == "" {
		return fmt.Errorf("forecast.base_url is required")
	}
	if c.Forecast.Timeout <= 0 {
		return fmt.Errorf("forecast.timeout must be positive")
	}
	switch c.Dashboard.SupersedePolicy {
	case SupersedeLatestSubmit, SupersedeLastSettled:
	default:
		return fmt.Errorf("dashboard.supersede_policy must be '%s' or '%s', got '%s'",
			SupersedeLatestSubmit, SupersedeLastSettled, c.Dashboard.SupersedePolicy)
	}
	if c.Dashboard.MaxHorizonMonths < 0 {
		return fmt.Errorf("dashboard.max_horizon_months cannot be negative")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Backend != "memory" && c.RateLimit.Backend != "redis" {
			return fmt.Errorf("rate_limit.backend must be 'memory' or 'redis', got '%s'", c.RateLimit.Backend)
		}
		if c.RateLimit.PerMinute <= 0 {
			return fmt.Errorf("rate_limit.per_minute must be positive")
		}
	}
	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("events.brokers cannot be empty when events are enabled")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("events.topic is required when events are enabled")
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
