package transcription

import (
	"fmt"

	"github.com/kbukum/podscribe/timeline"
)

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the local WAV file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is a hint such as "zh" or "en". Empty lets the model detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	// Duration is the end of the last segment in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is one time-aligned piece of the transcript as the backend
// reports it. Text keeps the backend's leading whitespace.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Timeline converts the response into validated transcript segments indexed
// by position. A segment with end before start, or segments out of start
// order, fail with MALFORMED_INPUT.
func (r *Response) Timeline() ([]timeline.Segment, error) {
	if r == nil {
		return nil, fmt.Errorf("transcription: nil response")
	}
	out := make([]timeline.Segment, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = timeline.Segment{
			Index:    i,
			Interval: timeline.Interval{Start: s.Start, End: s.End},
			Text:     s.Text,
		}
	}
	if err := timeline.ValidateSegments(out); err != nil {
		return nil, err
	}
	return out, nil
}
