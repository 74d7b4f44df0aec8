package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/process"
)

// SupportedFormats lists the input extensions ToWAV accepts.
var SupportedFormats = []string{".mp3", ".m4a"}

// Executor runs a command. *process.Runner satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmd process.Command) (*process.Result, error)
}

type execFunc func(ctx context.Context, cmd process.Command) (*process.Result, error)

func (f execFunc) Execute(ctx context.Context, cmd process.Command) (*process.Result, error) {
	return f(ctx, cmd)
}

// Info is what ffprobe reports about an audio file.
type Info struct {
	Duration   time.Duration
	Codec      string
	SampleRate int
	Channels   int
}

// Converter drives ffmpeg and ffprobe.
type Converter struct {
	cfg  Config
	exec Executor
	log  *logger.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithExecutor replaces the subprocess executor.
func WithExecutor(e Executor) Option {
	return func(c *Converter) { c.exec = e }
}

// NewConverter creates a Converter. Commands run once through process.Run
// unless an executor is supplied.
func NewConverter(cfg Config, opts ...Option) *Converter {
	cfg.ApplyDefaults()
	c := &Converter{
		cfg:  cfg,
		exec: execFunc(process.Run),
		log:  logger.Get("media"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Available reports whether ffmpeg is on PATH.
func (c *Converter) Available() bool {
	return process.Available(c.cfg.FFmpeg)
}

// ToWAV converts an MP3 or M4A file to <dir of input>/<title>.wav.
func (c *Converter) ToWAV(ctx context.Context, input, title string) (string, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if !isSupported(ext) {
		return "", apperrors.UnsupportedFormat(input, SupportedFormats...)
	}
	if _, err := os.Stat(input); err != nil {
		return "", apperrors.NotFound("audio file", input).WithCause(err)
	}

	output := filepath.Join(filepath.Dir(input), title+".wav")
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", input,
		"-vn",
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-f", "wav",
		output,
	}
	if err := c.ffmpeg(ctx, args); err != nil {
		return "", err
	}
	c.log.WithContext(ctx).Info("audio converted", logger.Fields(logger.FieldPath, output))
	return output, nil
}

// TrimStart writes input without its first d of audio to output. A trim at
// or beyond the audio's duration is an error; callers fall back to the
// untrimmed file.
func (c *Converter) TrimStart(ctx context.Context, input, output string, d time.Duration) (string, error) {
	if d <= 0 {
		return input, nil
	}
	if info, err := c.Probe(ctx, input); err == nil && info.Duration > 0 && d >= info.Duration {
		return "", apperrors.InvalidInput("trim", fmt.Sprintf("trim %s is not shorter than the audio (%s)", d, info.Duration))
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(d),
		"-i", input,
		"-c:a", "pcm_s16le",
		output,
	}
	if err := c.ffmpeg(ctx, args); err != nil {
		return "", err
	}
	return output, nil
}

// TrimmedPath returns the conventional name for a trimmed copy of wav.
func TrimmedPath(wav string) string {
	return strings.TrimSuffix(wav, filepath.Ext(wav)) + "_trimmed.wav"
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Probe reads duration and stream details with ffprobe.
func (c *Converter) Probe(ctx context.Context, path string) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	res, err := c.exec.Execute(ctx, process.Command{
		Binary: c.cfg.FFprobe,
		Args: []string{
			"-v", "error",
			"-select_streams", "a:0",
			"-show_entries", "stream=codec_name,sample_rate,channels:format=duration",
			"-of", "json",
			path,
		},
	})
	if err != nil {
		return nil, toolError(c.cfg.FFprobe, err)
	}
	return parseProbe(res.Stdout)
}

func parseProbe(data []byte) (*Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	info := &Info{}
	if secs, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(secs * float64(time.Second))
	}
	if len(out.Streams) > 0 {
		s := out.Streams[0]
		info.Codec = s.CodecName
		info.Channels = s.Channels
		info.SampleRate, _ = strconv.Atoi(s.SampleRate)
	}
	return info, nil
}

func (c *Converter) ffmpeg(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if _, err := c.exec.Execute(ctx, process.Command{Binary: c.cfg.FFmpeg, Args: args}); err != nil {
		return toolError(c.cfg.FFmpeg, err)
	}
	return nil
}

// toolError keeps AppErrors from the process layer and marks tool failures
// as permanent: the same input fails the same way again.
func toolError(tool string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	appErr := apperrors.ExternalServiceError(tool, err)
	appErr.Retryable = false
	return appErr
}

func isSupported(ext string) bool {
	for _, s := range SupportedFormats {
		if ext == s {
			return true
		}
	}
	return false
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
