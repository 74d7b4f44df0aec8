package main

import (
	"context"
	"fmt"

	"github.com/kbukum/podscribe/bootstrap"
	"github.com/kbukum/podscribe/config"
	"github.com/kbukum/podscribe/diarization"
	"github.com/kbukum/podscribe/diarization/pyannote"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/podcast"
	"github.com/kbukum/podscribe/storage"
	"github.com/kbukum/podscribe/transcription"
	"github.com/kbukum/podscribe/transcription/whisper"
	"github.com/kbukum/podscribe/version"

	_ "github.com/kbukum/podscribe/storage/local"
	_ "github.com/kbukum/podscribe/storage/s3"
)

// services holds everything a command wires from configuration.
type services struct {
	cfg         *config.Config
	app         *bootstrap.App
	transcriber transcription.Provider
	diarizer    diarization.Provider
	sink        *storage.Sink
	metrics     *observability.PipelineMetrics
}

// wiring selects which providers a command needs.
type wiring struct {
	transcriber bool
	diarizer    bool
}

func newServices(ctx context.Context, cfg *config.Config, w wiring) (*services, error) {
	s := &services{
		cfg: cfg,
		app: bootstrap.New(cfg.Base.Name, version.Get().Version,
			bootstrap.WithLogger(logger.Get("bootstrap")),
			bootstrap.WithGracefulTimeout(cfg.Server.ShutdownTimeout),
		),
	}

	shutdown, err := observability.Setup(ctx, cfg.Telemetry, cfg.Base.Name, version.Get().Version)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	s.app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	if s.metrics, err = observability.NewPipelineMetrics(observability.Meter()); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	if w.transcriber {
		if s.transcriber, err = newTranscriber(ctx, cfg.Transcription); err != nil {
			return nil, err
		}
		s.app.Summary.TrackComponent(s.transcriber.Name(), "transcription", cfg.Transcription.Provider, s.transcriber.IsAvailable(ctx))
	}
	if w.diarizer && cfg.Diarization.IsEnabled() {
		if s.diarizer, err = newDiarizer(ctx, cfg.Diarization); err != nil {
			return nil, err
		}
		s.app.Summary.TrackComponent(s.diarizer.Name(), "diarization", cfg.Diarization.Provider, s.diarizer.IsAvailable(ctx))
	}

	backend, err := storage.New(ctx, cfg.Output.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	s.sink = storage.NewSink(backend, cfg.Output.Storage)
	s.app.Summary.TrackComponent(cfg.Output.Storage.Provider, "storage", storageDetails(cfg.Output.Storage), true)
	return s, nil
}

func newTranscriber(ctx context.Context, cfg config.TranscriptionConfig) (transcription.Provider, error) {
	reg := transcription.NewRegistry()
	reg.RegisterFactory(whisper.ProviderName, whisper.Factory)
	mgr := transcription.NewManager(reg)
	if err := mgr.Initialize(cfg.Provider, cfg.Providers[cfg.Provider]); err != nil {
		return nil, err
	}
	if err := mgr.SetDefault(cfg.Provider); err != nil {
		return nil, err
	}
	return mgr.Get(ctx)
}

func newDiarizer(ctx context.Context, cfg config.DiarizationConfig) (diarization.Provider, error) {
	reg := diarization.NewRegistry()
	reg.RegisterFactory(pyannote.ProviderName, pyannote.Factory)
	mgr := diarization.NewManager(reg)
	if err := mgr.Initialize(cfg.Provider, cfg.Providers[cfg.Provider]); err != nil {
		return nil, err
	}
	if err := mgr.SetDefault(cfg.Provider); err != nil {
		return nil, err
	}
	return mgr.Get(ctx)
}

func storageDetails(cfg storage.Config) string {
	if cfg.Provider == storage.ProviderS3 {
		return "s3://" + cfg.Bucket + "/" + cfg.Prefix
	}
	return cfg.BasePath
}

// processor builds the pipeline over the wired services.
func (s *services) processor(deps podcast.Deps) (*podcast.Processor, error) {
	deps.Transcriber = s.transcriber
	deps.Diarizer = s.diarizer
	deps.Sink = s.sink
	deps.Metrics = s.metrics
	return podcast.NewProcessor(deps, podcast.Options{
		LabelFormat:  s.cfg.Output.LabelFormat,
		UnknownLabel: s.cfg.Output.UnknownLabel,
		Language:     s.cfg.Transcription.Language,
		NumSpeakers:  s.cfg.Diarization.NumSpeakers,
		MinSpeakers:  s.cfg.Diarization.MinSpeakers,
		MaxSpeakers:  s.cfg.Diarization.MaxSpeakers,
	})
}
