// Package whisper implements transcription.Provider against a faster-whisper
// HTTP sidecar exposing POST /transcribe and GET /health.
package whisper

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/kbukum/podscribe/httpclient"
	"github.com/kbukum/podscribe/provider"
	"github.com/kbukum/podscribe/resilience"
	"github.com/kbukum/podscribe/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL           = "http://localhost:8387"
	defaultModel         = "large-v3"
	defaultTimeout       = 30 * time.Minute
	defaultHealthTimeout = 5 * time.Second
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL         string            `yaml:"url" mapstructure:"url"`
	Model       string            `yaml:"model" mapstructure:"model"`
	Language    string            `yaml:"language" mapstructure:"language"`
	Device      string            `yaml:"device" mapstructure:"device"`
	ComputeType string            `yaml:"compute_type" mapstructure:"compute_type"`
	Timeout     time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Resilience  resilience.Policy `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider using a faster-whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	health *httpclient.Client
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:       ProviderName,
		BaseURL:    cfg.URL,
		Timeout:    cfg.Timeout,
		Resilience: cfg.Resilience,
	})
	if err != nil {
		return nil, fmt.Errorf("whisper client: %w", err)
	}
	health, err := httpclient.New(httpclient.Config{
		Name:       ProviderName,
		BaseURL:    cfg.URL,
		Timeout:    defaultHealthTimeout,
		Resilience: resilience.Policy{MaxAttempts: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper health client: %w", err)
	}
	return &Provider{cfg: cfg, client: client, health: health}, nil
}

// Factory creates Whisper providers from a settings block.
func Factory(settings map[string]any) (transcription.Provider, error) {
	var cfg Config
	if err := provider.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return NewProvider(cfg)
}

var _ provider.Factory[transcription.Provider] = Factory

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// IsAvailable checks if the Whisper sidecar answers its health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.health.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

// Transcribe uploads the audio file to the sidecar and returns its segments.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	fields := map[string]string{"model": model}
	if lang != "" {
		fields["language"] = lang
	}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if p.cfg.ComputeType != "" {
		fields["compute_type"] = p.cfg.ComputeType
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: "audio/wav",
				Path:        req.AudioPath,
			}},
		},
	})
	if err != nil {
		return nil, err
	}

	var result whisperResponse
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return result.toResponse(), nil
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *whisperResponse) toResponse() *transcription.Response {
	segments := make([]transcription.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = transcription.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	var duration float64
	if n := len(r.Segments); n > 0 {
		duration = r.Segments[n-1].End
	}
	return &transcription.Response{
		Text:     r.Text,
		Segments: segments,
		Duration: duration,
		Language: r.Language,
	}
}
