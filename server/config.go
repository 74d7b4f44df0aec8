package server

import (
	"fmt"
	"strings"
	"time"
)

const defaultMaxBodySize = 10 * 1024 * 1024

// Config holds HTTP server configuration.
type Config struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodySize     string        `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "10MB"

	// RateLimit caps requests per second per client IP; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = int(c.RateLimit) + 1
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be non-negative (got: %v)", c.RateLimit)
	}
	if _, err := ParseSize(c.MaxBodySize); err != nil {
		return fmt.Errorf("server.max_body_size: %w", err)
	}
	return nil
}

// MaxBodyBytes returns MaxBodySize in bytes, or the 10MB default when unset.
func (c *Config) MaxBodyBytes() int64 {
	n, err := ParseSize(c.MaxBodySize)
	if err != nil || n <= 0 {
		return defaultMaxBodySize
	}
	return n
}

// ParseSize parses sizes like "512KB", "10MB" or "1GB" (binary units).
// A bare number is bytes; the empty string is 0.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	var multiplier int64 = 1
	for _, unit := range []struct {
		suffix string
		mult   int64
	}{{"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10}, {"B", 1}} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	var val int64
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil || val < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return val * multiplier, nil
}
