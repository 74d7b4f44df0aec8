package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type sidecar struct {
	name  string
	ready bool
	model string
}

func (s *sidecar) Name() string                     { return s.name }
func (s *sidecar) IsAvailable(context.Context) bool { return s.ready }

func sidecarFactory(name string, ready bool) Factory[*sidecar] {
	return func(settings map[string]any) (*sidecar, error) {
		model, _ := settings["model"].(string)
		return &sidecar{name: name, ready: ready, model: model}, nil
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry[*sidecar]()
	if reg.Has("whisper") {
		t.Fatal("Has before registration")
	}
	reg.RegisterFactory("whisper", sidecarFactory("whisper", true))
	reg.RegisterFactory("pyannote", sidecarFactory("pyannote", true))

	if got := strings.Join(reg.List(), ","); got != "pyannote,whisper" {
		t.Errorf("List = %s", got)
	}

	p, err := reg.Create("whisper", map[string]any{"model": "large-v3"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.model != "large-v3" {
		t.Errorf("settings did not reach the factory: %+v", p)
	}

	_, err = reg.Create("wisper", nil)
	if err == nil || !strings.Contains(err.Error(), "not registered") || !strings.Contains(err.Error(), "whisper") {
		t.Errorf("err = %v, want not registered listing known names", err)
	}
}

func TestRegistryFactoryError(t *testing.T) {
	reg := NewRegistry[*sidecar]()
	reg.RegisterFactory("whisper", func(map[string]any) (*sidecar, error) {
		return nil, errors.New("bad url")
	})
	if _, err := reg.Create("whisper", nil); err == nil || err.Error() != "bad url" {
		t.Errorf("err = %v, want factory error", err)
	}
}

func TestFirstAvailable(t *testing.T) {
	tests := []struct {
		name      string
		providers map[string]*sidecar
		want      string
		wantErr   bool
	}{
		{
			name: "skips unavailable",
			providers: map[string]*sidecar{
				"a-whisper": {name: "a-whisper"},
				"b-whisper": {name: "b-whisper", ready: true},
				"c-whisper": {name: "c-whisper", ready: true},
			},
			want: "b-whisper",
		},
		{
			name:      "none available",
			providers: map[string]*sidecar{"whisper": {name: "whisper"}},
			wantErr:   true,
		},
		{
			name:      "empty",
			providers: map[string]*sidecar{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FirstAvailable[*sidecar]{}.Select(context.Background(), tt.providers)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Select = %v, want error", p.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Select = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestManager(t *testing.T) {
	reg := NewRegistry[*sidecar]()
	reg.RegisterFactory("whisper", sidecarFactory("whisper", false))
	reg.RegisterFactory("remote", sidecarFactory("remote", true))
	mgr := NewManager(reg, FirstAvailable[*sidecar]{})
	ctx := context.Background()

	if err := mgr.Initialize("missing", nil); err == nil {
		t.Error("Initialize of unregistered provider succeeded")
	}
	if err := mgr.SetDefault("whisper"); err == nil {
		t.Error("SetDefault before Initialize succeeded")
	}

	for _, name := range []string{"whisper", "remote"} {
		if err := mgr.Initialize(name, nil); err != nil {
			t.Fatalf("Initialize(%s): %v", name, err)
		}
	}
	if got := strings.Join(mgr.Available(), ","); got != "remote,whisper" {
		t.Errorf("Available = %s", got)
	}

	p, err := mgr.Get(ctx)
	if err != nil || p.Name() != "remote" {
		t.Errorf("Get without default = %v, %v; want remote", p, err)
	}

	if err := mgr.SetDefault("whisper"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	p, err = mgr.Get(ctx)
	if err != nil || p.Name() != "whisper" {
		t.Errorf("Get with default = %v, %v; want whisper even when unavailable", p, err)
	}

	if _, err := mgr.GetByName("pyannote"); err == nil {
		t.Error("GetByName of unknown provider succeeded")
	}
}

func TestManagerAdd(t *testing.T) {
	mgr := NewManager(NewRegistry[*sidecar](), FirstAvailable[*sidecar]{})
	mgr.Add(&sidecar{name: "pyannote"})
	mgr.Add(&sidecar{name: "whisper", ready: true})

	p, err := mgr.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name() != "whisper" {
		t.Errorf("Get = %q, want the available provider", p.Name())
	}
	if got, err := mgr.GetByName("pyannote"); err != nil || got.Name() != "pyannote" {
		t.Errorf("GetByName = %v, %v", got, err)
	}
}
