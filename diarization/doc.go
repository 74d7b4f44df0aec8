// Package diarization defines the speaker diarization provider interface and
// the response shape shared by its backends.
//
// Backends register a provider.Factory under their name:
//
//   - diarization/pyannote: pyannote.audio HTTP sidecar
//
// Response.Turns turns a backend response into validated speaker turns in
// the order the backend delivered them.
package diarization
