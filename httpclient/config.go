package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/podscribe/resilience"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "podscribe"
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the remote service in errors, logs and the breaker.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole Do call attempt. Streams are bounded by ctx only.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`

	// RateLimit caps requests per second across all callers; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`

	// Resilience configures retries and the circuit breaker.
	Resilience resilience.Policy `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = 1
	}
	c.Resilience.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("httpclient: rate_limit must not be negative")
	}
	if err := c.Resilience.Validate(); err != nil {
		return fmt.Errorf("httpclient %s: %w", c.Name, err)
	}
	return nil
}
