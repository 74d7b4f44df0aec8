// Package caption renders aligned transcripts as SubRip captions, diarized
// text and plain text, and parses SubRip captions back into segments.
//
// Renderers return strings and never touch the filesystem.
package caption
