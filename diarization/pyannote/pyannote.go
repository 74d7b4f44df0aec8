// Package pyannote implements diarization.Provider against a pyannote.audio
// HTTP sidecar exposing POST /diarize and GET /health.
package pyannote

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kbukum/podscribe/diarization"
	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/httpclient"
	"github.com/kbukum/podscribe/provider"
	"github.com/kbukum/podscribe/resilience"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultURL           = "http://localhost:8388"
	defaultPipeline      = "pyannote/speaker-diarization"
	defaultTimeout       = 300 * time.Second
	defaultHealthTimeout = 5 * time.Second
)

// Config holds configuration for the Pyannote diarization provider.
type Config struct {
	URL      string `yaml:"url" mapstructure:"url"`
	Pipeline string `yaml:"pipeline" mapstructure:"pipeline"`
	// Device selects cpu or cuda on the sidecar; empty keeps its default.
	Device     string            `yaml:"device" mapstructure:"device"`
	Timeout    time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Resilience resilience.Policy `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Pipeline == "" {
		c.Pipeline = defaultPipeline
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements diarization.Provider using the Pyannote HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	health *httpclient.Client
}

// NewProvider creates a new Pyannote diarization provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:       ProviderName,
		BaseURL:    cfg.URL,
		Timeout:    cfg.Timeout,
		Resilience: cfg.Resilience,
	})
	if err != nil {
		return nil, fmt.Errorf("pyannote client: %w", err)
	}
	health, err := httpclient.New(httpclient.Config{
		Name:       ProviderName,
		BaseURL:    cfg.URL,
		Timeout:    defaultHealthTimeout,
		Resilience: resilience.Policy{MaxAttempts: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("pyannote health client: %w", err)
	}
	return &Provider{cfg: cfg, client: client, health: health}, nil
}

// Factory creates Pyannote providers from a settings block.
func Factory(settings map[string]any) (diarization.Provider, error) {
	var cfg Config
	if err := provider.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("pyannote: %w", err)
	}
	return NewProvider(cfg)
}

var _ provider.Factory[diarization.Provider] = Factory

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// IsAvailable checks if the Pyannote sidecar answers its health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.health.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

// Diarize uploads the audio file to the sidecar and returns its turns.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	fields := map[string]string{"pipeline": p.cfg.Pipeline}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if req.NumSpeakers > 0 {
		fields["num_speakers"] = strconv.Itoa(req.NumSpeakers)
	}
	if req.MinSpeakers > 0 {
		fields["min_speakers"] = strconv.Itoa(req.MinSpeakers)
	}
	if req.MaxSpeakers > 0 {
		fields["max_speakers"] = strconv.Itoa(req.MaxSpeakers)
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/diarize",
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

	var result pyannoteResponse
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("pyannote: %w", err)
	}
	if result.Error != "" {
		appErr := apperrors.ExternalServiceError(ProviderName, fmt.Errorf("%s", result.Error))
		appErr.Retryable = false
		return nil, appErr
	}
	return result.toResponse(), nil
}

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func (r *pyannoteResponse) toResponse() *diarization.Response {
	segments := make([]diarization.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = diarization.Segment{
			Speaker: seg.SpeakerID,
			Start:   seg.StartTime,
			End:     seg.EndTime,
		}
	}
	return &diarization.Response{
		Segments:    segments,
		NumSpeakers: r.NumSpeakers,
	}
}
