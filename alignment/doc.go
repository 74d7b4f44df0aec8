// Package alignment attributes transcript segments to diarization speakers.
//
// Each segment is matched against every diarization turn. Turns that share at
// least one instant with the segment are candidates; the candidate with the
// largest overlap duration wins and ties go to the turn that appears first in
// the input. A segment with no candidate is labeled UnknownSpeaker.
//
// Winning speakers are turned into display labels by a speaker.Registry that
// lives for exactly one Align call, so labels follow first-win order within a
// run and never leak between runs.
package alignment
