package storage

import (
	"errors"
	"fmt"

	"github.com/kbukum/podscribe/resilience"
)

// Provider names for the supported backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "output"
	DefaultRegion   = "us-east-1"
)

// Config selects and configures the output backend.
type Config struct {
	// Provider selects the backend: "local" or "s3".
	Provider string `yaml:"provider" mapstructure:"provider" json:"provider"`

	// BasePath is the root directory for local storage.
	BasePath string `yaml:"base_path" mapstructure:"base_path" json:"base_path"`

	// Prefix is prepended to every object path written through a Sink.
	Prefix string `yaml:"prefix" mapstructure:"prefix" json:"prefix"`

	Bucket         string `yaml:"bucket" mapstructure:"bucket" json:"bucket"`
	Region         string `yaml:"region" mapstructure:"region" json:"region"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	AccessKey      string `yaml:"access_key" mapstructure:"access_key" json:"-"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key" json:"-"`
	ForcePathStyle bool   `yaml:"force_path_style" mapstructure:"force_path_style" json:"force_path_style"`

	// Resilience guards uploads through a Sink.
	Resilience resilience.Policy `yaml:"resilience" mapstructure:"resilience" json:"-"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	c.Resilience.ApplyDefaults()
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("storage: bucket is required for s3 provider"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("storage: region is required for s3 provider"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("storage: access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return c.Resilience.Validate()
}
