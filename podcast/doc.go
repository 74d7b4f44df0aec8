// Package podcast runs the end-to-end pipeline: locate and download the
// audio, normalize it to WAV, optionally trim the intro, transcribe and
// diarize concurrently, attribute segments to speakers and store the
// transcripts.
//
// Diarization is optional. When it is disabled, unavailable or fails, the
// run still stores the SRT and plain transcripts and reports
// Result.Diarized false. Malformed provider output aborts the run before
// anything is stored.
package podcast
