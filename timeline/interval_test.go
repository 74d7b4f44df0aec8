package timeline

import (
	"math"
	"testing"

	apperrors "github.com/kbukum/podscribe/errors"
)

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantErr    bool
	}{
		{"regular", 1.0, 2.5, false},
		{"zero length", 3.0, 3.0, false},
		{"end before start", 5.0, 4.999, true},
		{"nan start", math.NaN(), 1.0, true},
		{"nan end", 1.0, math.NaN(), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := NewInterval(tc.start, tc.end)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for [%v, %v]", tc.start, tc.end)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if iv.Start != tc.start || iv.End != tc.end {
				t.Errorf("got %+v", iv)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Interval{0, 1}, Interval{2, 3}, false},
		{"touching end to start", Interval{0, 5}, Interval{5, 6}, true},
		{"touching start to end", Interval{5, 6}, Interval{0, 5}, true},
		{"contained", Interval{0, 10}, Interval{2, 3}, true},
		{"partial", Interval{10, 15}, Interval{9, 11}, true},
		{"zero length inside", Interval{1, 1}, Interval{0, 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Errorf("Overlaps is not symmetric for %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestOverlapDuration(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want float64
	}{
		{"disjoint", Interval{0, 1}, Interval{2, 3}, 0},
		{"touching", Interval{5, 6}, Interval{0, 5}, 0},
		{"partial left", Interval{10, 15}, Interval{9, 11}, 1},
		{"partial right", Interval{10, 15}, Interval{11, 20}, 4},
		{"contained", Interval{0, 10}, Interval{2, 3}, 1},
		{"identical", Interval{2, 4}, Interval{2, 4}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapDuration(tc.a, tc.b); got != tc.want {
				t.Errorf("OverlapDuration(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTouchingOverlapsWithZeroDuration(t *testing.T) {
	seg := Interval{5.0, 6.0}
	turn := Interval{0.0, 5.0}
	if !Overlaps(seg, turn) {
		t.Fatal("touching intervals must overlap")
	}
	if d := OverlapDuration(seg, turn); d != 0 {
		t.Fatalf("touching overlap duration should be 0, got %v", d)
	}
}

func TestValidateSegments(t *testing.T) {
	ok := []Segment{
		{Index: 0, Interval: Interval{0, 1}, Text: "a"},
		{Index: 1, Interval: Interval{1, 2}, Text: "b"},
		{Index: 2, Interval: Interval{1, 3}, Text: "c"},
	}
	if err := ValidateSegments(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inverted := []Segment{
		{Index: 0, Interval: Interval{0, 1}},
		{Index: 1, Interval: Interval{4, 2}},
	}
	err := ValidateSegments(inverted)
	appErr, isApp := apperrors.AsAppError(err)
	if !isApp || appErr.Code != apperrors.ErrCodeMalformedInput {
		t.Fatalf("expected MALFORMED_INPUT, got %v", err)
	}
	if appErr.Details["index"] != 1 || appErr.Details["kind"] != "segment" {
		t.Errorf("expected segment 1 in details, got %v", appErr.Details)
	}

	unordered := []Segment{
		{Index: 0, Interval: Interval{5, 6}},
		{Index: 1, Interval: Interval{1, 2}},
	}
	if err := ValidateSegments(unordered); !apperrors.IsCode(err, apperrors.ErrCodeMalformedInput) {
		t.Fatalf("expected MALFORMED_INPUT for out-of-order input, got %v", err)
	}
}

func TestValidateTurns(t *testing.T) {
	turns := []Turn{
		{Interval: Interval{10, 20}, Speaker: "A"},
		{Interval: Interval{0, 5}, Speaker: "B"},
	}
	if err := ValidateTurns(turns); err != nil {
		t.Fatalf("turns need no ordering, got %v", err)
	}

	turns = append(turns, Turn{Interval: Interval{8, 7}, Speaker: "C"})
	err := ValidateTurns(turns)
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Details["kind"] != "turn" || appErr.Details["index"] != 2 {
		t.Errorf("expected turn 2 in details, got %v", appErr.Details)
	}
}

func TestNewSegmentAndTurn(t *testing.T) {
	if _, err := NewSegment(4, 3, 2, "x"); !apperrors.IsCode(err, apperrors.ErrCodeMalformedInput) {
		t.Errorf("expected MALFORMED_INPUT, got %v", err)
	}
	if _, err := NewTurn(0, 3, 2, "A"); !apperrors.IsCode(err, apperrors.ErrCodeMalformedInput) {
		t.Errorf("expected MALFORMED_INPUT, got %v", err)
	}
	seg, err := NewSegment(1, 2, 3, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labeled := seg.Labeled("Speaker 1")
	if labeled.Text != "hi" || labeled.Speaker != "Speaker 1" || labeled.Interval != seg.Interval {
		t.Errorf("unexpected labeled segment %+v", labeled)
	}
}
