// Package timeline holds the time-range arithmetic and the record types that
// flow through speaker attribution: transcript segments, diarization turns
// and labeled output segments.
//
// All times are seconds as float64. Intervals are validated on construction
// so that malformed input is rejected before any alignment work starts.
package timeline
