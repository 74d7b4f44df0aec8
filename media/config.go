package media

import (
	"fmt"
	"time"
)

// Config configures the external tools and the WAV output format.
type Config struct {
	FFmpeg  string `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	FFprobe string `yaml:"ffprobe" mapstructure:"ffprobe"`
	// SampleRate and Channels of the WAV handed to the sidecars.
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels   int `yaml:"channels" mapstructure:"channels"`
	// Timeout bounds one ffmpeg or ffprobe invocation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.FFmpeg == "" {
		c.FFmpeg = "ffmpeg"
	}
	if c.FFprobe == "" {
		c.FFprobe = "ffprobe"
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.Channels <= 0 {
		c.Channels = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Minute
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Channels > 2 {
		return fmt.Errorf("media.channels must be 1 or 2 (got: %d)", c.Channels)
	}
	if c.SampleRate > 0 && c.SampleRate < 8000 {
		return fmt.Errorf("media.sample_rate must be at least 8000 (got: %d)", c.SampleRate)
	}
	return nil
}
