package source

import (
	"fmt"
	"time"

	"github.com/kbukum/podscribe/resilience"
)

// BrowserUserAgent is sent to pages that block non-browser clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config configures page fetching, downloads and yt-dlp.
type Config struct {
	// OutputDir receives downloaded and extracted audio.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Timeout bounds one page fetch. Downloads are bounded by the run context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// RateLimit caps page fetches per second; 0 disables it.
	RateLimit  float64           `yaml:"rate_limit" mapstructure:"rate_limit"`
	YtDlp      string            `yaml:"yt_dlp" mapstructure:"yt_dlp"`
	Resilience resilience.Policy `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "downloads"
	}
	if c.UserAgent == "" {
		c.UserAgent = BrowserUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.YtDlp == "" {
		c.YtDlp = "yt-dlp"
	}
	c.Resilience.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("download.rate_limit must not be negative")
	}
	return c.Resilience.Validate()
}
