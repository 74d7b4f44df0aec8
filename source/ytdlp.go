package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/process"
	"github.com/kbukum/podscribe/provider"
)

// ExtractRequest asks yt-dlp for the audio track of a video page.
type ExtractRequest struct {
	URL       string
	Name      string
	OutputDir string
}

// Extractor runs yt-dlp. It is a provider.RequestResponse so the locator
// can decorate it with logging and tracing.
type Extractor struct {
	runner *process.Runner
}

var _ provider.RequestResponse[ExtractRequest, string] = (*Extractor)(nil)

// NewExtractor creates an Extractor over a yt-dlp runner.
func NewExtractor(runner *process.Runner) *Extractor {
	return &Extractor{runner: runner}
}

func (e *Extractor) Name() string                         { return e.runner.Name() }
func (e *Extractor) IsAvailable(ctx context.Context) bool { return e.runner.IsAvailable(ctx) }

// Execute extracts the audio as M4A into OutputDir and returns the file
// yt-dlp wrote.
func (e *Extractor) Execute(ctx context.Context, req ExtractRequest) (string, error) {
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", apperrors.Internal(err)
	}
	_, err := e.runner.Run(ctx, ExtractArgs(req)...)
	if err != nil {
		return "", err
	}
	return FindExtracted(req.OutputDir, req.Name)
}

// ExtractArgs builds the yt-dlp argument list.
func ExtractArgs(req ExtractRequest) []string {
	return []string{
		"--extract-audio",
		"--audio-format", "m4a",
		"--no-check-certificate",
		"--output", filepath.Join(req.OutputDir, req.Name+".%(ext)s"),
		req.URL,
	}
}

// FindExtracted returns the first <name>*.m4a file in dir by name order.
func FindExtracted(dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", apperrors.AudioNotFound(dir, "output directory unreadable").WithCause(err)
	}
	if len(entries) == 0 {
		return "", apperrors.AudioNotFound(dir, "audio extraction produced no files")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		if strings.HasPrefix(n, name) && strings.HasSuffix(strings.ToLower(n), ".m4a") {
			return filepath.Join(dir, n), nil
		}
	}
	return "", apperrors.AudioNotFound(dir, "no .m4a file matching "+name)
}
