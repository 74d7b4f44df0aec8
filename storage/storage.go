package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the object storage operations podscribe needs.
type Storage interface {
	// Upload writes data from reader to the given path. Readers over
	// in-memory data (bytes.Reader, strings.Reader) let backends send a
	// content length.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	// A missing object yields a NOT_FOUND AppError.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a location for the object: file:// for local storage,
	// https:// for S3.
	URL(ctx context.Context, path string) (string, error)

	// List returns metadata for all objects whose path starts with prefix,
	// sorted by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
