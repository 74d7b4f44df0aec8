package alignment

import "github.com/kbukum/podscribe/timeline"

// Outcome is the result of resolving one segment against the turn list.
// Found is false when no turn overlaps the segment.
type Outcome struct {
	Found   bool
	Speaker string
	Overlap float64
}

// Resolve picks the speaker whose turn overlaps seg the most. Turns that only
// touch seg are candidates with zero overlap. On equal overlap the earliest
// turn in input order wins.
func Resolve(seg timeline.Interval, turns []timeline.Turn) Outcome {
	var best Outcome
	for _, turn := range turns {
		if !timeline.Overlaps(seg, turn.Interval) {
			continue
		}
		overlap := timeline.OverlapDuration(seg, turn.Interval)
		if !best.Found || overlap > best.Overlap {
			best = Outcome{Found: true, Speaker: turn.Speaker, Overlap: overlap}
		}
	}
	return best
}
