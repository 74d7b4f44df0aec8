package config

import (
	"errors"
	"fmt"

	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/media"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/server"
	"github.com/kbukum/podscribe/source"
	"github.com/kbukum/podscribe/storage"
	"github.com/kbukum/podscribe/util"
	"github.com/kbukum/podscribe/validation"
)

// AppName names the application in config search paths and the env prefix.
const AppName = "podscribe"

// Config is the complete podscribe configuration.
type Config struct {
	Base          BaseConfig           `yaml:"base" mapstructure:"base"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Download      source.Config        `yaml:"download" mapstructure:"download"`
	Media         media.Config         `yaml:"media" mapstructure:"media"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Diarization   DiarizationConfig    `yaml:"diarization" mapstructure:"diarization"`
	Output        OutputConfig         `yaml:"output" mapstructure:"output"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry     observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// TranscriptionConfig selects the transcription provider. Providers holds
// one settings block per provider name, decoded by that provider's factory.
type TranscriptionConfig struct {
	Provider  string                    `yaml:"provider" mapstructure:"provider" validate:"required"`
	Language  string                    `yaml:"language" mapstructure:"language"`
	Providers map[string]map[string]any `yaml:"providers" mapstructure:"providers"`
}

// DiarizationConfig selects the diarization provider. Speaker counts are
// hints forwarded to the provider; zero means unknown.
type DiarizationConfig struct {
	// Enabled defaults to true; set it to false to always write unlabeled
	// transcripts.
	Enabled     *bool                     `yaml:"enabled" mapstructure:"enabled"`
	Provider    string                    `yaml:"provider" mapstructure:"provider"`
	NumSpeakers int                       `yaml:"num_speakers" mapstructure:"num_speakers" validate:"gte=0"`
	MinSpeakers int                       `yaml:"min_speakers" mapstructure:"min_speakers" validate:"gte=0"`
	MaxSpeakers int                       `yaml:"max_speakers" mapstructure:"max_speakers" validate:"gte=0"`
	Providers   map[string]map[string]any `yaml:"providers" mapstructure:"providers"`
}

// IsEnabled reports whether diarization should run.
func (c *DiarizationConfig) IsEnabled() bool {
	return util.ValueOr(c.Enabled, true)
}

// OutputConfig controls where transcripts go and how speakers are labeled.
type OutputConfig struct {
	Storage      storage.Config `yaml:"storage" mapstructure:"storage"`
	LabelFormat  string         `yaml:"label_format" mapstructure:"label_format" validate:"label_format"`
	UnknownLabel string         `yaml:"unknown_label" mapstructure:"unknown_label" validate:"max=64"`
}

// ApplyDefaults fills every section's zero fields.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Download.ApplyDefaults()
	c.Media.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.Output.Storage.ApplyDefaults()
	if c.Telemetry.Environment == "" || c.Telemetry.Environment == "development" {
		c.Telemetry.Environment = c.Base.Environment
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "whisper"
	}
	if c.Diarization.Provider == "" {
		c.Diarization.Provider = "pyannote"
	}
	if c.Output.LabelFormat == "" {
		c.Output.LabelFormat = "Speaker %d"
	}
}

// Validate checks struct tags first, then each section's own rules, and
// reports every failure at once.
func (c *Config) Validate() error {
	var errs []error
	if err := validation.Validate(c); err != nil {
		errs = append(errs, err)
	}
	for _, v := range []interface{ Validate() error }{
		&c.Base, &c.Logging, &c.Download, &c.Media, &c.Server, &c.Telemetry, &c.Output.Storage,
	} {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	d := c.Diarization
	if d.MinSpeakers > 0 && d.MaxSpeakers > 0 && d.MinSpeakers > d.MaxSpeakers {
		errs = append(errs, fmt.Errorf("diarization.min_speakers (%d) exceeds max_speakers (%d)", d.MinSpeakers, d.MaxSpeakers))
	}
	return errors.Join(errs...)
}

// Load reads config files and environment into a Config, then applies
// defaults and validates.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(AppName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
