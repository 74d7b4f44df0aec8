package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/resilience"
	"github.com/kbukum/podscribe/transcription"
)

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func sidecar(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			http.Error(w, "missing audio", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " Hello there. How are you?",
			"language": r.FormValue("language"),
			"segments": []map[string]any{
				{"id": 0, "start": 0.0, "end": 2.5, "text": " Hello there."},
				{"id": 1, "start": 2.5, "end": 4.0, "text": " How are you?"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTranscribe(t *testing.T) {
	srv := sidecar(t)
	p, err := NewProvider(Config{URL: srv.URL, Language: "en"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeWAV(t)})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(resp.Segments) != 2 || resp.Language != "en" || resp.Duration != 4.0 {
		t.Errorf("unexpected response %+v", resp)
	}

	segs, err := resp.Timeline()
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if segs[1].Index != 1 || segs[1].Text != " How are you?" || segs[1].Interval.Start != 2.5 {
		t.Errorf("unexpected segment %+v", segs[1])
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	srv := sidecar(t)
	p, err := NewProvider(Config{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: "/does/not/exist.wav"})
	if err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{URL: srv.URL, Resilience: resilience.Policy{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: writeWAV(t)})
	if !apperrors.IsCode(err, apperrors.ErrCodeExternalService) {
		t.Errorf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := sidecar(t)
	p, _ := NewProvider(Config{URL: srv.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected sidecar to be available")
	}

	down, _ := NewProvider(Config{URL: "http://127.0.0.1:1"})
	if down.IsAvailable(context.Background()) {
		t.Error("expected unreachable sidecar to be unavailable")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory(map[string]any{
		"url":     "http://whisper:8387",
		"model":   "base",
		"timeout": "10m",
	})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	cfg := p.(*Provider).Config()
	if cfg.URL != "http://whisper:8387" || cfg.Model != "base" || cfg.Timeout != 10*time.Minute {
		t.Errorf("unexpected config %+v", cfg)
	}
	if p.Name() != ProviderName {
		t.Errorf("name = %q", p.Name())
	}

	def, err := Factory(nil)
	if err != nil {
		t.Fatalf("Factory(nil): %v", err)
	}
	if def.(*Provider).Config().URL != defaultURL {
		t.Errorf("expected default URL")
	}
}
