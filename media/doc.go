// Package media normalizes downloaded audio with ffmpeg and inspects it
// with ffprobe.
//
// Only MP3 and M4A inputs are converted; everything else is rejected with
// UNSUPPORTED_FORMAT before ffmpeg runs. The WAV output keeps the input's
// directory and takes the run's title as its name.
package media
