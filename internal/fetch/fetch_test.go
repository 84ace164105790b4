package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantTitle    string
		wantDuration int
		wantDesc     string
	}{
		{
			name:         "full metadata",
			raw:          `{"id": "abc123", "title": "Talk", "description": "0:00 Intro\n1:30 Q&A", "duration": 4000, "uploader": "someone", "webpage_url": "https://example.com/watch?v=abc123"}`,
			wantTitle:    "Talk",
			wantDuration: 4000,
			wantDesc:     "0:00 Intro\n1:30 Q&A",
		},
		{
			name:         "fractional duration floored",
			raw:          `{"id": "x", "title": "T", "duration": 125.9}`,
			wantTitle:    "T",
			wantDuration: 125,
		},
		{
			name:         "missing description and duration",
			raw:          `{"id": "x", "title": "T"}`,
			wantTitle:    "T",
			wantDuration: 0,
		},
		{
			name:         "null duration",
			raw:          `{"id": "x", "title": "T", "duration": null, "description": null}`,
			wantTitle:    "T",
			wantDuration: 0,
		},
		{
			name:         "title falls back to id",
			raw:          `{"id": "xyz"}`,
			wantTitle:    "xyz",
			wantDuration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseInfo([]byte(tt.raw))
			if err != nil {
				t.Fatalf("parseInfo failed: %v", err)
			}
			if info.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", info.Title, tt.wantTitle)
			}
			if info.Duration != tt.wantDuration {
				t.Errorf("duration = %d, want %d", info.Duration, tt.wantDuration)
			}
			if info.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", info.Description, tt.wantDesc)
			}
		})
	}
}

func TestParseInfoInvalid(t *testing.T) {
	if _, err := parseInfo([]byte("ERROR: unsupported URL")); err == nil {
		t.Error("expected error for non-JSON output")
	}
}

func TestLastLine(t *testing.T) {
	out := []byte("first\n/tmp/video.mp4\n\n  \n")
	if got := lastLine(out); got != "/tmp/video.mp4" {
		t.Errorf("lastLine() = %q", got)
	}
	if got := lastLine(nil); got != "" {
		t.Errorf("lastLine(nil) = %q", got)
	}
}

// writes an executable shell script standing in for yt-dlp
func fakeYtDlp(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return path
}

func TestFetcherInfo(t *testing.T) {
	bin := fakeYtDlp(t, `echo '{"id":"abc","title":"Stub","description":"0:00 - Intro","duration":60.2}'`)
	f := New(Options{Binary: bin})

	info, err := f.Info(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Title != "Stub" || info.Duration != 60 || info.Description != "0:00 - Intro" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestFetcherInfoFailure(t *testing.T) {
	bin := fakeYtDlp(t, "echo 'ERROR: video unavailable' >&2\nexit 1\n")
	f := New(Options{Binary: bin})

	_, err := f.Info(context.Background(), "https://example.com/v")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "video unavailable") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestFetcherDownload(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "abc.mp4")
	if err := os.WriteFile(target, []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}
	bin := fakeYtDlp(t, "echo '"+target+"'\n")
	f := New(Options{Binary: bin})

	got, err := f.Download(context.Background(), "https://example.com/v", dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if got != target {
		t.Errorf("Download() = %q, want %q", got, target)
	}
}

func TestFetcherDownloadNoOutput(t *testing.T) {
	bin := fakeYtDlp(t, "exit 0\n")
	f := New(Options{Binary: bin})

	_, err := f.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, ErrNoOutput) {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	f := New(Options{})
	if f.opts.Format != DefaultOptions().Format || f.opts.MergeFormat != "mp4" {
		t.Errorf("defaults not applied: %+v", f.opts)
	}
}

func TestFetcherDownloadRequestsSubtitles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "abc.mp4")
	argsFile := filepath.Join(dir, "args")
	if err := os.WriteFile(target, []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}
	bin := fakeYtDlp(t, "echo \"$@\" > '"+argsFile+"'\necho '"+target+"'\n")
	f := New(Options{Binary: bin, SubLangs: []string{"en", "de"}})

	if _, err := f.Download(context.Background(), "https://example.com/v", dir); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--write-subs", "--write-auto-subs", "--sub-langs en,de"} {
		if !strings.Contains(string(args), want) {
			t.Errorf("expected %q in yt-dlp args %q", want, args)
		}
	}
}
