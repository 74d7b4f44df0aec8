// Package transcription defines the speech-to-text provider interface and
// the response shape shared by its backends.
//
// Backends register a provider.Factory under their name:
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// Response.Timeline turns a backend response into validated transcript
// segments ready for alignment and rendering.
package transcription
