package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/httpclient"
	"github.com/kbukum/podscribe/logger"
)

// Downloader streams remote audio into the output directory.
type Downloader struct {
	client *httpclient.Client
	dir    string
	log    *logger.Logger
}

// NewDownloader creates a Downloader writing into dir.
func NewDownloader(client *httpclient.Client, dir string) *Downloader {
	return &Downloader{client: client, dir: dir, log: logger.Get("source")}
}

// Download saves audioURL as <dir>/<title><ext>, taking the extension from
// the URL path. An audioURL that already names a local file is returned
// unchanged. The file appears only once fully written.
func (d *Downloader) Download(ctx context.Context, audioURL, title string) (string, error) {
	if info, err := os.Stat(audioURL); err == nil && !info.IsDir() {
		d.log.WithContext(ctx).Info("audio already local", logger.Fields(logger.FieldPath, audioURL))
		return audioURL, nil
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", apperrors.Internal(err)
	}
	output := filepath.Join(d.dir, title+extensionOf(audioURL))

	stream, err := d.client.DoStream(ctx, httpclient.Request{Method: http.MethodGet, Path: audioURL})
	if err != nil {
		return "", err
	}
	defer func() { _ = stream.Close() }()

	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return "", apperrors.Internal(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, stream.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", apperrors.ConnectionFailed(d.client.Name()).WithCause(fmt.Errorf("download %s: %w", audioURL, err))
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return "", apperrors.Internal(err)
	}

	d.log.WithContext(ctx).Info("audio downloaded", logger.Fields(
		logger.FieldURL, audioURL,
		logger.FieldPath, output,
		"bytes", n,
	))
	return output, nil
}

// extensionOf returns the extension of the URL's path, ignoring the query.
func extensionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
