package timeline

import (
	"math"

	apperrors "github.com/kbukum/podscribe/errors"
)

// Segment is one recognized stretch of speech from the transcription backend.
type Segment struct {
	Index    int      `json:"index"`
	Interval Interval `json:"interval"`
	Text     string   `json:"text"`
}

// Turn is one contiguous stretch attributed to a single anonymous speaker by
// the diarization backend.
type Turn struct {
	Interval Interval `json:"interval"`
	Speaker  string   `json:"speaker"`
}

// LabeledSegment is a transcript segment attributed to a display label.
type LabeledSegment struct {
	Interval Interval `json:"interval"`
	Text     string   `json:"text"`
	Speaker  string   `json:"speaker"`
}

// NewSegment builds a segment, rejecting end < start.
func NewSegment(index int, start, end float64, text string) (Segment, error) {
	if err := (Interval{Start: start, End: end}).Validate(); err != nil {
		return Segment{}, malformed("segment", index, Interval{Start: start, End: end}, err)
	}
	return Segment{Index: index, Interval: Interval{Start: start, End: end}, Text: text}, nil
}

// NewTurn builds a turn, rejecting end < start. position is the turn's place in
// its input collection and is only used for the error message.
func NewTurn(position int, start, end float64, speaker string) (Turn, error) {
	if err := (Interval{Start: start, End: end}).Validate(); err != nil {
		return Turn{}, malformed("turn", position, Interval{Start: start, End: end}, err)
	}
	return Turn{Interval: Interval{Start: start, End: end}, Speaker: speaker}, nil
}

// ValidateSegments checks every segment interval and the non-decreasing start
// order of the collection. The error names the first offending position.
func ValidateSegments(segments []Segment) error {
	for i, seg := range segments {
		iv := seg.Interval
		if err := iv.Validate(); err != nil {
			return malformed("segment", i, iv, err)
		}
		if i > 0 && iv.Start < segments[i-1].Interval.Start {
			return apperrors.MalformedInput("segment", i, iv.Start, iv.End, "starts before the previous segment")
		}
	}
	return nil
}

// ValidateTurns checks every turn interval. Turns carry no ordering requirement.
func ValidateTurns(turns []Turn) error {
	for i, turn := range turns {
		iv := turn.Interval
		if err := iv.Validate(); err != nil {
			return malformed("turn", i, iv, err)
		}
	}
	return nil
}

// Labeled returns the segment attributed to label.
func (s Segment) Labeled(label string) LabeledSegment {
	return LabeledSegment{Interval: s.Interval, Text: s.Text, Speaker: label}
}

// Unlabeled converts segments to labeled segments with an empty label, for
// renderers that ignore speakers.
func Unlabeled(segments []Segment) []LabeledSegment {
	out := make([]LabeledSegment, len(segments))
	for i, s := range segments {
		out[i] = s.Labeled("")
	}
	return out
}

func malformed(kind string, index int, iv Interval, cause error) error {
	reason := "end is before start"
	if math.IsNaN(iv.Start) || math.IsNaN(iv.End) {
		reason = "bounds must be numbers"
	}
	return apperrors.MalformedInput(kind, index, iv.Start, iv.End, reason).WithCause(cause)
}
