package alignment

import (
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/speaker"
	"github.com/kbukum/podscribe/timeline"
)

// UnknownSpeaker labels segments that no diarization turn overlaps.
const UnknownSpeaker = "unknown speaker"

type options struct {
	labelFormat  string
	unknownLabel string
	log          *logger.Logger
}

// Option configures alignment.
type Option func(*options)

// WithLabelFormat sets the speaker label pattern, e.g. "Speaker %d".
func WithLabelFormat(format string) Option {
	return func(o *options) { o.labelFormat = format }
}

// WithUnknownLabel overrides the label used for segments without a speaker.
func WithUnknownLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.unknownLabel = label
		}
	}
}

// WithLogger sets the logger used for per-run summaries.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{
		labelFormat:  speaker.DefaultLabelFormat,
		unknownLabel: UnknownSpeaker,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return o
}

// Align labels every segment with a speaker. Both collections are validated
// before any work is done; a malformed segment or turn returns a
// MALFORMED_INPUT error and no output. The result has one entry per segment in
// input order.
func Align(segments []timeline.Segment, turns []timeline.Turn, opts ...Option) ([]timeline.LabeledSegment, error) {
	o := buildOptions(opts)
	return align(segments, turns, o)
}

func align(segments []timeline.Segment, turns []timeline.Turn, o options) ([]timeline.LabeledSegment, error) {
	if err := timeline.ValidateSegments(segments); err != nil {
		return nil, err
	}
	if err := timeline.ValidateTurns(turns); err != nil {
		return nil, err
	}

	registry := speaker.NewRegistry(speaker.WithLabelFormat(o.labelFormat))
	out := make([]timeline.LabeledSegment, len(segments))
	unknown := 0
	for i, seg := range segments {
		outcome := Resolve(seg.Interval, turns)
		if !outcome.Found {
			unknown++
			out[i] = seg.Labeled(o.unknownLabel)
			continue
		}
		out[i] = seg.Labeled(registry.Resolve(outcome.Speaker))
	}

	o.log.Debug("segments aligned", logger.Fields(
		logger.FieldSegments, len(segments),
		logger.FieldTurns, len(turns),
		logger.FieldSpeakers, registry.Len(),
		"unknown", unknown,
	))
	return out, nil
}

// Aligner holds alignment options for repeated use. Every call to Align still
// starts from an empty speaker registry.
type Aligner struct {
	opts options
}

// NewAligner creates an Aligner.
func NewAligner(opts ...Option) *Aligner {
	return &Aligner{opts: buildOptions(opts)}
}

// Align labels segments using the aligner's options.
func (a *Aligner) Align(segments []timeline.Segment, turns []timeline.Turn) ([]timeline.LabeledSegment, error) {
	return align(segments, turns, a.opts)
}
