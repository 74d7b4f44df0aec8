package podcast

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/podscribe/alignment"
	"github.com/kbukum/podscribe/caption"
	"github.com/kbukum/podscribe/diarization"
	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/media"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/provider"
	"github.com/kbukum/podscribe/source"
	"github.com/kbukum/podscribe/storage"
	"github.com/kbukum/podscribe/timeline"
	"github.com/kbukum/podscribe/transcription"
	"github.com/kbukum/podscribe/util"
	"github.com/kbukum/podscribe/validation"
)

// Stage names used in logs, spans and metrics.
const (
	StageLocate    = "locate"
	StageConvert   = "convert"
	StageTrim      = "trim"
	StageRecognize = "recognize"
	StageAlign     = "align"
	StageStore     = "store"
)

// Locator finds the audio behind a link and brings it to disk.
type Locator interface {
	Locate(ctx context.Context, link, name string) (*source.Located, error)
}

// Converter normalizes and trims audio.
type Converter interface {
	ToWAV(ctx context.Context, input, title string) (string, error)
	TrimStart(ctx context.Context, input, output string, d time.Duration) (string, error)
}

// Options tune labeling and provider hints.
type Options struct {
	LabelFormat  string
	UnknownLabel string
	Language     string
	NumSpeakers  int
	MinSpeakers  int
	MaxSpeakers  int
}

// Deps are the processor's collaborators. Diarizer may be nil to disable
// diarization.
type Deps struct {
	Locator     Locator
	Converter   Converter
	Transcriber transcription.Provider
	Diarizer    diarization.Provider
	Sink        *storage.Sink
	Metrics     *observability.PipelineMetrics
}

// Request is one podcast run.
type Request struct {
	URL  string
	Name string
	// Trim drops this much audio from the start; 0 keeps everything.
	Trim time.Duration
}

// Outputs are the locations of the stored transcripts. Diarized is empty
// when the run fell back to an unlabeled transcript.
type Outputs struct {
	SRT      string `json:"srt"`
	Text     string `json:"text"`
	Diarized string `json:"diarized,omitempty"`
}

// Result describes a finished run.
type Result struct {
	RunID     string                    `json:"run_id"`
	Platform  source.Platform           `json:"platform,omitempty"`
	AudioPath string                    `json:"audio_path,omitempty"`
	WAVPath   string                    `json:"wav_path,omitempty"`
	Segments  []timeline.LabeledSegment `json:"segments"`
	Speakers  int                       `json:"speakers"`
	Diarized  bool                      `json:"diarized"`
	// Fallback explains why the transcript is unlabeled.
	Fallback string  `json:"fallback,omitempty"`
	Outputs  Outputs `json:"outputs"`
}

// Processor runs podcast pipelines. It is safe for concurrent use; each run
// allocates its own speaker labels.
type Processor struct {
	locator    Locator
	converter  Converter
	transcribe provider.RequestResponse[transcription.Request, *transcription.Response]
	diarize    provider.RequestResponse[diarization.Request, *diarization.Response]
	sink       *storage.Sink
	metrics    *observability.PipelineMetrics
	opts       Options
	log        *logger.Logger
}

// NewProcessor wires a Processor. Provider calls are logged and traced.
// Only the sink is required up front; Process also needs the locator,
// converter and transcriber, while AlignFiles needs none of them.
func NewProcessor(deps Deps, opts Options) (*Processor, error) {
	if deps.Sink == nil {
		return nil, apperrors.MissingField("sink")
	}
	if err := validation.New().LabelFormat("label_format", opts.LabelFormat).Err(); err != nil {
		return nil, err
	}
	log := logger.Get("podcast")
	p := &Processor{
		locator:   deps.Locator,
		converter: deps.Converter,
		sink:      deps.Sink,
		metrics:   deps.Metrics,
		opts:      opts,
		log:       log,
	}
	if deps.Transcriber != nil {
		p.transcribe = provider.Chain(
			provider.WithLogging[transcription.Request, *transcription.Response](log),
			provider.WithTracing[transcription.Request, *transcription.Response](),
		)(transcription.AsCall(deps.Transcriber))
	}
	if deps.Diarizer != nil {
		p.diarize = provider.Chain(
			provider.WithLogging[diarization.Request, *diarization.Response](log),
			provider.WithTracing[diarization.Request, *diarization.Response](),
		)(diarization.AsCall(deps.Diarizer))
	}
	return p, nil
}

func (r Request) validate() error {
	return validation.New().
		Required("url", r.URL).
		URL("url", r.URL).
		Required("name", r.Name).
		Custom(strings.TrimSpace(r.Name) == "" || util.FileName(r.Name) != "", "name", "must contain usable file name characters").
		NonNegative("trim", r.Trim.Seconds()).
		Err()
}

// Process runs the whole pipeline for one link.
func (p *Processor) Process(ctx context.Context, req Request) (_ *Result, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	switch {
	case p.locator == nil:
		return nil, apperrors.MissingField("locator")
	case p.converter == nil:
		return nil, apperrors.MissingField("converter")
	case p.transcribe == nil:
		return nil, apperrors.MissingField("transcriber")
	}

	name := util.FileName(req.Name)
	result := &Result{RunID: uuid.NewString()}
	ctx = logger.ContextWithRunID(ctx, result.RunID)
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, result.RunID)

	log := p.log.WithContext(ctx)
	log.Info("run started", logger.Fields(logger.FieldURL, req.URL, "name", name))
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
			observability.SetSpanError(ctx, err)
			log.Error("run failed", logger.MergeWithError(nil, err))
		} else if !result.Diarized {
			status = "degraded"
		}
		p.metrics.RecordRun(ctx, string(result.Platform), status)
	}()

	located, err := runStage(ctx, p, StageLocate, func(ctx context.Context) (*source.Located, error) {
		return p.locator.Locate(ctx, req.URL, name)
	})
	if err != nil {
		return nil, err
	}
	result.Platform = located.Platform
	result.AudioPath = located.LocalPath
	observability.SetSpanAttribute(ctx, observability.AttrPlatform, string(located.Platform))

	wav, err := runStage(ctx, p, StageConvert, func(ctx context.Context) (string, error) {
		return p.converter.ToWAV(ctx, located.LocalPath, name)
	})
	if err != nil {
		return nil, err
	}

	if req.Trim > 0 {
		trimmed, trimErr := runStage(ctx, p, StageTrim, func(ctx context.Context) (string, error) {
			return p.converter.TrimStart(ctx, wav, media.TrimmedPath(wav), req.Trim)
		})
		if trimErr != nil {
			log.Warn("trim failed, using untrimmed audio", logger.MergeWithError(logger.Fields("trim", req.Trim.String()), trimErr))
		} else {
			wav = trimmed
		}
	}
	result.WAVPath = wav

	labeled, diarized, err := p.recognize(ctx, wav, result)
	if err != nil {
		return nil, err
	}
	result.Segments = labeled
	result.Diarized = diarized
	result.Speakers = countSpeakers(labeled, p.unknownLabel())

	outputs, err := p.store(ctx, name, labeled, diarized)
	if err != nil {
		return nil, err
	}
	result.Outputs = outputs

	observability.SetSpanAttribute(ctx, observability.AttrSegments, len(labeled))
	observability.SetSpanAttribute(ctx, observability.AttrSpeakers, result.Speakers)
	observability.SetSpanAttribute(ctx, observability.AttrDiarized, diarized)
	log.Info("run finished", logger.Fields(
		logger.FieldSegments, len(labeled),
		logger.FieldSpeakers, result.Speakers,
		"diarized", diarized,
	))
	return result, nil
}

// recognize transcribes and diarizes concurrently, then aligns. A
// transcription failure cancels diarization; a diarization failure only
// degrades the result. Malformed output from either provider aborts.
func (p *Processor) recognize(ctx context.Context, wav string, result *Result) ([]timeline.LabeledSegment, bool, error) {
	var (
		transcript *transcription.Response
		turnsResp  *diarization.Response
		diarErr    error
	)

	err := p.timed(ctx, StageRecognize, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			transcript, err = p.transcribe.Execute(gctx, transcription.Request{AudioPath: wav, Language: p.opts.Language})
			return err
		})
		if p.diarize != nil {
			g.Go(func() error {
				if !p.diarize.IsAvailable(gctx) {
					diarErr = apperrors.ServiceUnavailable(p.diarize.Name())
					return nil
				}
				turnsResp, diarErr = p.diarize.Execute(gctx, diarization.Request{
					AudioPath:   wav,
					NumSpeakers: p.opts.NumSpeakers,
					MinSpeakers: p.opts.MinSpeakers,
					MaxSpeakers: p.opts.MaxSpeakers,
				})
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, false, err
	}

	segments, err := transcript.Timeline()
	if err != nil {
		return nil, false, err
	}

	switch {
	case p.diarize == nil:
		p.fallback(ctx, result, "disabled", nil)
		return timeline.Unlabeled(segments), false, nil
	case diarErr != nil:
		p.fallback(ctx, result, "provider_error", diarErr)
		return timeline.Unlabeled(segments), false, nil
	}

	turns, err := turnsResp.Turns()
	if err != nil {
		return nil, false, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrTurns, len(turns))

	labeled, err := runStage(ctx, p, StageAlign, func(ctx context.Context) ([]timeline.LabeledSegment, error) {
		return alignment.Align(segments, turns, p.alignOptions(ctx)...)
	})
	if err != nil {
		return nil, false, err
	}
	p.metrics.RecordAlignment(ctx, len(labeled), countUnknown(labeled, p.unknownLabel()))
	return labeled, true, nil
}

// fallback records why the transcript stays unlabeled.
func (p *Processor) fallback(ctx context.Context, result *Result, reason string, cause error) {
	result.Fallback = reason
	p.metrics.RecordFallback(ctx, reason)
	fields := logger.Fields("reason", reason)
	if cause != nil {
		fields = logger.MergeWithError(fields, apperrors.DiarizationUnavailable(cause))
	}
	p.log.WithContext(ctx).Warn("continuing without speaker labels", fields)
}

// store renders every output in memory, then writes them. Nothing is
// written when rendering has not completed.
func (p *Processor) store(ctx context.Context, base string, labeled []timeline.LabeledSegment, diarized bool) (Outputs, error) {
	objects := []storage.Object{
		{Name: base + ".srt", Data: []byte(caption.RenderSRT(labeled))},
		{Name: base + ".txt", Data: []byte(caption.RenderPlain(labeled))},
	}
	if diarized {
		objects = append(objects, storage.Object{Name: base + "_diarized.txt", Data: []byte(caption.RenderDiarized(labeled))})
	}

	locations, err := runStage(ctx, p, StageStore, func(ctx context.Context) ([]string, error) {
		return p.sink.PutAll(ctx, objects...)
	})
	if err != nil {
		return Outputs{}, err
	}

	out := Outputs{SRT: locations[0], Text: locations[1]}
	if diarized {
		out.Diarized = locations[2]
	}
	return out, nil
}

func (p *Processor) alignOptions(ctx context.Context) []alignment.Option {
	opts := []alignment.Option{
		alignment.WithUnknownLabel(p.opts.UnknownLabel),
		alignment.WithLogger(p.log.WithContext(ctx)),
	}
	if p.opts.LabelFormat != "" {
		opts = append(opts, alignment.WithLabelFormat(p.opts.LabelFormat))
	}
	return opts
}

func (p *Processor) unknownLabel() string {
	if p.opts.UnknownLabel != "" {
		return p.opts.UnknownLabel
	}
	return alignment.UnknownSpeaker
}

// timed runs fn as a named stage with its own span, metric and log line.
func (p *Processor) timed(ctx context.Context, stage string, fn func(context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanStage+stage)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrStage, stage)

	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	p.metrics.RecordStage(ctx, stage, d, err)

	log := p.log.WithContext(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Warn("stage failed", logger.MergeWithError(logger.StageFields(stage, d), err))
		return err
	}
	log.Info("stage finished", logger.StageFields(stage, d))
	return nil
}

func runStage[T any](ctx context.Context, p *Processor, stage string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := p.timed(ctx, stage, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func countSpeakers(labeled []timeline.LabeledSegment, unknown string) int {
	seen := make(map[string]struct{})
	for _, s := range labeled {
		if s.Speaker != "" && s.Speaker != unknown {
			seen[s.Speaker] = struct{}{}
		}
	}
	return len(seen)
}

func countUnknown(labeled []timeline.LabeledSegment, unknown string) int {
	n := 0
	for _, s := range labeled {
		if s.Speaker == unknown {
			n++
		}
	}
	return n
}
