package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestBuild(t *testing.T) {
	src := t.TempDir()
	files := []string{
		writeFile(t, src, "01 - Intro.mp4", "intro bytes"),
		writeFile(t, src, "02 - Outro.mp4", "outro bytes"),
	}

	zipPath := filepath.Join(t.TempDir(), "out", "talk_chapters.zip")
	size, err := Build(zipPath, files)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
	if _, err := os.Stat(zipPath + ".partial"); !os.IsNotExist(err) {
		t.Error("partial archive left behind")
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer zr.Close()

	got := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		got[f.Name] = string(data)
	}

	want := map[string]string{
		"01 - Intro.mp4": "intro bytes",
		"02 - Outro.mp4": "outro bytes",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for name, content := range want {
		if got[name] != content {
			t.Errorf("entry %q = %q, want %q", name, got[name], content)
		}
	}
}

func TestBuildRejectsDuplicates(t *testing.T) {
	a := writeFile(t, t.TempDir(), "same.mp4", "a")
	b := writeFile(t, t.TempDir(), "same.mp4", "b")

	if _, err := Build(filepath.Join(t.TempDir(), "x.zip"), []string{a, b}); err == nil {
		t.Error("expected duplicate entry error")
	}
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Build(filepath.Join(dir, "empty.zip"), nil); err == nil {
		t.Error("expected error for empty file list")
	}

	zipPath := filepath.Join(dir, "missing.zip")
	if _, err := Build(zipPath, []string{filepath.Join(dir, "nope.mp4")}); err == nil {
		t.Error("expected error for missing input")
	}
	if _, err := os.Stat(zipPath); !os.IsNotExist(err) {
		t.Error("archive should not exist after failure")
	}
}
