package podcast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kbukum/podscribe/errors"
)

const episodeSRT = `1
00:00:00,000 --> 00:00:02,000
hello

2
00:00:02,000 --> 00:00:04,000
world

3
00:00:10,000 --> 00:00:11,000
?
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestAlignFiles(t *testing.T) {
	tests := []struct {
		name  string
		turns string
	}{
		{
			name:  "array",
			turns: `[{"start":0,"end":2.5,"speaker":"B"},{"start":2.5,"end":5,"speaker":"A"}]`,
		},
		{
			name:  "diarization response",
			turns: `{"segments":[{"start":0,"end":2.5,"speaker":"B"},{"start":2.5,"end":5,"speaker":"A"}],"num_speakers":2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.processor(t, false, Options{})
			in := t.TempDir()
			srt := writeFile(t, in, "episode.srt", episodeSRT)
			turnsPath := writeFile(t, in, "turns.json", tt.turns)

			res, err := p.AlignFiles(context.Background(), srt, turnsPath)
			if err != nil {
				t.Fatalf("AlignFiles: %v", err)
			}
			if res.Speakers != 2 || !res.Diarized {
				t.Errorf("Speakers = %d, Diarized = %v", res.Speakers, res.Diarized)
			}
			want := "Speaker 1：hello\nSpeaker 2：world\nunknown speaker：?\n"
			if got := f.read(t, "episode_diarized.txt"); got != want {
				t.Errorf("diarized = %q, want %q", got, want)
			}
			if got := f.read(t, "episode.txt"); got != "helloworld?" {
				t.Errorf("plain = %q", got)
			}
		})
	}
}

func TestAlignFilesErrors(t *testing.T) {
	tests := []struct {
		name     string
		srt      string
		turns    string
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "bad json",
			srt:      episodeSRT,
			turns:    `not json`,
			wantCode: apperrors.ErrCodeInvalidFormat,
		},
		{
			name:     "inverted turn",
			srt:      episodeSRT,
			turns:    `[{"start":3,"end":1,"speaker":"A"}]`,
			wantCode: apperrors.ErrCodeMalformedInput,
		},
		{
			name:     "empty speaker",
			srt:      episodeSRT,
			turns:    `[{"start":0,"end":1,"speaker":""}]`,
			wantCode: apperrors.ErrCodeMalformedInput,
		},
		{
			name:     "inverted segment",
			srt:      "1\n00:00:05,000 --> 00:00:01,000\nbackwards\n",
			turns:    `[]`,
			wantCode: apperrors.ErrCodeMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.processor(t, false, Options{})
			in := t.TempDir()
			srt := writeFile(t, in, "episode.srt", tt.srt)
			turnsPath := writeFile(t, in, "turns.json", tt.turns)

			_, err := p.AlignFiles(context.Background(), srt, turnsPath)
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
			if got := f.files(t); len(got) != 0 {
				t.Errorf("files written on error: %v", got)
			}
		})
	}
}

func TestAlignFilesMissingInput(t *testing.T) {
	f := newFixture(t)
	p := f.processor(t, false, Options{})

	_, err := p.AlignFiles(context.Background(), filepath.Join(t.TempDir(), "nope.srt"), "turns.json")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
