package timeline

import (
	"math"

	apperrors "github.com/kbukum/podscribe/errors"
)

// Interval is a time range in seconds with End >= Start.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewInterval returns a validated interval. It rejects NaN bounds and
// end < start.
func NewInterval(start, end float64) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate reports whether the interval satisfies End >= Start.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Start) || math.IsNaN(iv.End) {
		return apperrors.InvalidInput("interval", "bounds must be numbers")
	}
	if iv.End < iv.Start {
		return apperrors.InvalidInput("interval", "end is before start")
	}
	return nil
}

// Duration returns End - Start.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Overlaps reports whether a and b share at least one instant. Boundaries are
// inclusive, so intervals that only touch overlap.
func Overlaps(a, b Interval) bool {
	return a.Start <= b.End && b.Start <= a.End
}

// OverlapDuration returns the length of the intersection of a and b, or 0 when
// they are disjoint or only touch.
func OverlapDuration(a, b Interval) float64 {
	return math.Max(0, math.Min(a.End, b.End)-math.Max(a.Start, b.Start))
}
