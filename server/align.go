package server

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/podscribe/alignment"
	"github.com/kbukum/podscribe/caption"
	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/timeline"
	"github.com/kbukum/podscribe/validation"
)

// SegmentBody is one transcript segment in an align request. Index is
// optional and defaults to the segment's position.
type SegmentBody struct {
	Index *int    `json:"index,omitempty"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TurnBody is one diarization turn in an align request.
type TurnBody struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker" validate:"required"`
}

// AlignRequest is the body of POST /v1/align.
type AlignRequest struct {
	Segments     []SegmentBody `json:"segments" validate:"dive"`
	Turns        []TurnBody    `json:"turns" validate:"dive"`
	LabelFormat  string        `json:"label_format" validate:"label_format"`
	UnknownLabel string        `json:"unknown_label" validate:"max=64"`
}

// LabeledBody is one labeled segment in the response.
type LabeledBody struct {
	Index   int     `json:"index"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

// AlignResponse carries the labeled segments and their renderings.
type AlignResponse struct {
	Segments []LabeledBody `json:"segments"`
	SRT      string        `json:"srt"`
	Diarized string        `json:"diarized"`
	Plain    string        `json:"plain"`
}

// AlignDefaults are used when a request leaves its label fields empty.
type AlignDefaults struct {
	LabelFormat  string
	UnknownLabel string
}

// AlignHandler serves POST /v1/align. Malformed segments or turns answer
// 400 with a MALFORMED_INPUT body and no partial output.
func AlignHandler(defaults AlignDefaults, metrics *observability.PipelineMetrics) gin.HandlerFunc {
	log := logger.Get("server")
	return func(c *gin.Context) {
		var req AlignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithError(c, apperrors.InvalidFormat("body", "JSON align request").WithCause(err))
			return
		}
		if err := validation.Validate(req); err != nil {
			RespondWithError(c, err)
			return
		}

		segments, turns, err := req.timeline()
		if err != nil {
			RespondWithError(c, err)
			return
		}

		labelFormat := firstNonEmpty(req.LabelFormat, defaults.LabelFormat)
		opts := []alignment.Option{
			alignment.WithUnknownLabel(firstNonEmpty(req.UnknownLabel, defaults.UnknownLabel)),
			alignment.WithLogger(log.WithContext(c.Request.Context())),
		}
		if labelFormat != "" {
			opts = append(opts, alignment.WithLabelFormat(labelFormat))
		}

		labeled, err := alignment.Align(segments, turns, opts...)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		unknown := 0
		out := make([]LabeledBody, len(labeled))
		unknownLabel := firstNonEmpty(req.UnknownLabel, defaults.UnknownLabel, alignment.UnknownSpeaker)
		for i, ls := range labeled {
			out[i] = LabeledBody{Index: segments[i].Index, Start: ls.Interval.Start, End: ls.Interval.End, Text: ls.Text, Speaker: ls.Speaker}
			if ls.Speaker == unknownLabel {
				unknown++
			}
		}
		metrics.RecordAlignment(c.Request.Context(), len(labeled), unknown)

		RespondOK(c, AlignResponse{
			Segments: out,
			SRT:      caption.RenderSRT(labeled),
			Diarized: caption.RenderDiarized(labeled),
			Plain:    caption.RenderPlain(labeled),
		})
	}
}

// timeline converts the request into validated timeline values. The first
// bad interval aborts with MALFORMED_INPUT naming its position.
func (r AlignRequest) timeline() ([]timeline.Segment, []timeline.Turn, error) {
	segments := make([]timeline.Segment, len(r.Segments))
	for i, s := range r.Segments {
		index := i
		if s.Index != nil {
			index = *s.Index
		}
		seg, err := timeline.NewSegment(index, s.Start, s.End, s.Text)
		if err != nil {
			return nil, nil, err
		}
		segments[i] = seg
	}
	turns := make([]timeline.Turn, len(r.Turns))
	for i, t := range r.Turns {
		turn, err := timeline.NewTurn(i, t.Start, t.End, t.Speaker)
		if err != nil {
			return nil, nil, err
		}
		turns[i] = turn
	}
	return segments, turns, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
