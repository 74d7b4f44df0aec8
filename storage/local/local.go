// Package local keeps transcripts as files under one output directory.
package local

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/storage"
)

const tempPrefix = ".upload-"

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config) (storage.Storage, error) {
		return NewStorage(cfg.BasePath)
	})
}

// Storage is a storage.Storage rooted at a directory. Object paths are
// cleaned as if absolute, so "../x" lands at "<root>/x".
type Storage struct {
	root string
}

// NewStorage makes basePath absolute and creates it.
func NewStorage(basePath string) (*Storage, error) {
	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) BasePath() string { return s.root }

func (s *Storage) file(path string) (string, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("path", "escapes the storage root")
	}
	return full, nil
}

// Upload stages the data in a hidden temp file beside the target and
// renames it into place once complete.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) (err error) {
	target, err := s.file(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("storage: commit %s: %w", path, err)
	}
	return nil
}

// Download opens path; a missing file is NOT_FOUND.
func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	target, err := s.file(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperrors.NotFound("object", path)
	case err != nil:
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	return f, nil
}

// Delete removes path. Deleting a missing file is not an error.
func (s *Storage) Delete(_ context.Context, path string) error {
	target, err := s.file(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	target, err := s.file(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, fmt.Errorf("storage: stat %s: %w", path, err)
}

// URL is the file:// location of path.
func (s *Storage) URL(_ context.Context, path string) (string, error) {
	target, err := s.file(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}

// List walks the root and returns files whose slash-separated relative path
// has prefix, sorted by path. In-flight uploads are skipped.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	var files []storage.FileInfo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, storage.FileInfo{
			Path:         rel,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  contentType(path),
		})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: list %q: %w", prefix, err)
	}
	slices.SortFunc(files, func(a, b storage.FileInfo) int { return cmp.Compare(a.Path, b.Path) })
	if files == nil {
		files = []storage.FileInfo{}
	}
	return files, nil
}

// contentType guesses from the extension; .srt has no registered type.
func contentType(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".srt":
		return "application/x-subrip"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

var _ storage.Storage = (*Storage)(nil)
