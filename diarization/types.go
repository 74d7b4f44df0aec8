package diarization

import (
	"fmt"

	"github.com/kbukum/podscribe/timeline"
)

// Request holds parameters for a diarization call. Zero speaker counts let
// the backend decide.
type Request struct {
	AudioPath   string `json:"audio_path"`
	NumSpeakers int    `json:"num_speakers,omitempty"`
	MinSpeakers int    `json:"min_speakers,omitempty"`
	MaxSpeakers int    `json:"max_speakers,omitempty"`
}

// Response holds the result of a diarization call.
type Response struct {
	Segments    []Segment `json:"segments"`
	NumSpeakers int       `json:"num_speakers"`
}

// Segment is a speaker-attributed time range as the backend reports it.
type Segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Turns converts the response into validated turns, keeping backend order.
// A segment with end before start fails with MALFORMED_INPUT.
func (r *Response) Turns() ([]timeline.Turn, error) {
	if r == nil {
		return nil, fmt.Errorf("diarization: nil response")
	}
	turns := make([]timeline.Turn, len(r.Segments))
	for i, s := range r.Segments {
		turns[i] = timeline.Turn{
			Interval: timeline.Interval{Start: s.Start, End: s.End},
			Speaker:  s.Speaker,
		}
	}
	if err := timeline.ValidateTurns(turns); err != nil {
		return nil, err
	}
	return turns, nil
}
