package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/resilience"
)

// memStorage is an in-memory Storage that can fail the first N uploads.
type memStorage struct {
	data        map[string][]byte
	failUploads int
	uploads     int
}

func newMemStorage() *memStorage { return &memStorage{data: make(map[string][]byte)} }

func (m *memStorage) Upload(_ context.Context, path string, r io.Reader) error {
	m.uploads++
	if m.uploads <= m.failUploads {
		return errors.New("transient write failure")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.data[path] = data
	return nil
}

func (m *memStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.data[path]
	if !ok {
		return nil, apperrors.NotFound("object", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	delete(m.data, path)
	return nil
}

func (m *memStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.data[path]
	return ok, nil
}

func (m *memStorage) URL(_ context.Context, path string) (string, error) {
	return "mem://" + path, nil
}

func (m *memStorage) List(_ context.Context, prefix string) ([]FileInfo, error) {
	var out []FileInfo
	for p, d := range m.data {
		if strings.HasPrefix(p, prefix) {
			out = append(out, FileInfo{Path: p, Size: int64(len(d))})
		}
	}
	return out, nil
}

func fastConfig(attempts int) Config {
	return Config{
		Provider: "mem",
		Resilience: resilience.Policy{
			MaxAttempts:     attempts,
			InitialBackoff:  time.Millisecond,
			MaxBackoff:      time.Millisecond,
			BreakerFailures: 100,
			BreakerTimeout:  time.Second,
		},
	}
}

func TestSinkPutReturnsLocation(t *testing.T) {
	mem := newMemStorage()
	cfg := fastConfig(1)
	cfg.Prefix = "out"
	sink := NewSink(mem, cfg)

	loc, err := sink.Put(context.Background(), "ep.srt", []byte("data"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != "mem://out/ep.srt" {
		t.Errorf("location = %q", loc)
	}
	if string(mem.data["out/ep.srt"]) != "data" {
		t.Errorf("stored = %q", mem.data["out/ep.srt"])
	}
}

func TestSinkRetriesTransientUploads(t *testing.T) {
	mem := newMemStorage()
	mem.failUploads = 2
	sink := NewSink(mem, fastConfig(3))

	if _, err := sink.Put(context.Background(), "ep.txt", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if mem.uploads != 3 {
		t.Errorf("uploads = %d, want 3", mem.uploads)
	}
}

func TestSinkPutAllStopsAtFirstFailure(t *testing.T) {
	mem := newMemStorage()
	mem.failUploads = 100
	sink := NewSink(mem, fastConfig(1))

	locs, err := sink.PutAll(context.Background(), Object{Name: "a"}, Object{Name: "b"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(locs) != 0 || mem.uploads != 1 {
		t.Errorf("locs=%v uploads=%d", locs, mem.uploads)
	}
}

func TestSinkGetMissing(t *testing.T) {
	_, err := NewSink(newMemStorage(), fastConfig(1)).Get(context.Background(), "missing")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local defaults", Config{}, false},
		{"s3 ok", Config{Provider: ProviderS3, Bucket: "b"}, false},
		{"s3 missing bucket", Config{Provider: ProviderS3}, true},
		{"s3 half credentials", Config{Provider: ProviderS3, Bucket: "b", AccessKey: "k"}, true},
		{"unknown provider", Config{Provider: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewUnregisteredProvider(t *testing.T) {
	// Valid config, but this package's tests import no backend.
	_, err := New(context.Background(), Config{Provider: ProviderS3, Bucket: "b"})
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected not registered error, got %v", err)
	}
}
