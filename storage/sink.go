package storage

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/provider"
)

// Object is one named payload to store.
type Object struct {
	Name string
	Data []byte
}

// upload is the provider call shape for one Upload.
type upload struct {
	storage Storage
	name    string
}

func (u *upload) Name() string                     { return u.name }
func (u *upload) IsAvailable(context.Context) bool { return u.storage != nil }

func (u *upload) Execute(ctx context.Context, obj Object) (string, error) {
	if err := u.storage.Upload(ctx, obj.Name, bytes.NewReader(obj.Data)); err != nil {
		return "", err
	}
	return u.storage.URL(ctx, obj.Name)
}

// Sink writes whole in-memory payloads under a common prefix. Each upload
// is logged, traced and retried according to the configured policy.
type Sink struct {
	storage Storage
	prefix  string
	put     provider.RequestResponse[Object, string]
}

// NewSink wraps s. Names passed to Put and Get are joined onto prefix.
func NewSink(s Storage, cfg Config) *Sink {
	cfg.ApplyDefaults()
	return &Sink{
		storage: s,
		prefix:  cfg.Prefix,
		put: provider.Chain(
			provider.WithLogging[Object, string](logger.Get("storage")),
			provider.WithTracing[Object, string](),
			provider.WithResilience[Object, string](cfg.Resilience),
		)(&upload{storage: s, name: "storage." + cfg.Provider}),
	}
}

// Storage returns the underlying backend.
func (k *Sink) Storage() Storage { return k.storage }

// Put stores data under name and returns its location.
func (k *Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	return k.put.Execute(ctx, Object{Name: k.key(name), Data: data})
}

// PutAll stores objects in order and returns their locations. It stops at
// the first failure; objects already stored stay in place.
func (k *Sink) PutAll(ctx context.Context, objects ...Object) ([]string, error) {
	locations := make([]string, 0, len(objects))
	for _, obj := range objects {
		loc, err := k.Put(ctx, obj.Name, obj.Data)
		if err != nil {
			return locations, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// Get reads back the object stored under name.
func (k *Sink) Get(ctx context.Context, name string) ([]byte, error) {
	rc, err := k.storage.Download(ctx, k.key(name))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (k *Sink) key(name string) string {
	if k.prefix == "" {
		return name
	}
	return path.Join(k.prefix, name)
}
