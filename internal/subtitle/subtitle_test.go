package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,500
Hello there

2
00:00:05,000 --> 00:00:12,000
Second line
continues here

3
00:01:00,250 --> 00:01:03,000
Later
`

const sampleVTT = "\ufeffWEBVTT\nKind: captions\nLanguage: en\n\n" +
	"NOTE this block is ignored\n\n" +
	"intro\n00:01.000 --> 00:04.500 align:start position:0%\nHello there\n\n" +
	"00:00:05.000 --> 00:00:12.000\nSecond line\n"

func TestParseSRT(t *testing.T) {
	sub, err := Parse(strings.NewReader(sampleSRT), FormatSRT)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sub.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sub.Entries))
	}

	second := sub.Entries[1]
	if second.StartTime != 5*time.Second || second.EndTime != 12*time.Second {
		t.Errorf("unexpected timing %v --> %v", second.StartTime, second.EndTime)
	}
	if second.Text != "Second line\ncontinues here" {
		t.Errorf("unexpected text %q", second.Text)
	}
	if got := sub.Entries[2].StartTime; got != time.Minute+250*time.Millisecond {
		t.Errorf("third start = %v", got)
	}
}

func TestParseVTT(t *testing.T) {
	sub, err := Parse(strings.NewReader(sampleVTT), FormatVTT)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", sub.Entries)
	}
	if sub.Entries[0].Text != "Hello there" {
		t.Errorf("unexpected first text %q", sub.Entries[0].Text)
	}
	if sub.Entries[0].EndTime != 4500*time.Millisecond {
		t.Errorf("unexpected first end %v", sub.Entries[0].EndTime)
	}
}

func TestParseInvalidTimestamp(t *testing.T) {
	input := "1\n00:00:75,000 --> 00:00:80,000\nbad\n"
	if _, err := Parse(strings.NewReader(input), FormatSRT); err == nil {
		t.Error("expected error for out of range timestamp")
	}
}

func TestSlice(t *testing.T) {
	sub, err := Parse(strings.NewReader(sampleSRT), FormatSRT)
	if err != nil {
		t.Fatal(err)
	}

	got := Slice(sub, 4*time.Second, 60*time.Second)
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", got.Entries)
	}

	// first cue straddles the window start and gets clipped
	first := got.Entries[0]
	if first.StartTime != 0 || first.EndTime != 500*time.Millisecond {
		t.Errorf("clipped cue = %v --> %v", first.StartTime, first.EndTime)
	}
	second := got.Entries[1]
	if second.Index != 2 || second.StartTime != time.Second || second.EndTime != 8*time.Second {
		t.Errorf("shifted cue = %+v", second)
	}

	if empty := Slice(sub, 20*time.Second, 30*time.Second); len(empty.Entries) != 0 {
		t.Errorf("expected no entries, got %+v", empty.Entries)
	}
}

func TestRender(t *testing.T) {
	sub := &Subtitle{Entries: []Entry{
		{StartTime: 1500 * time.Millisecond, EndTime: time.Hour + 2*time.Second, Text: "Hi"},
	}}

	srt, err := Render(sub, FormatSRT)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1\n00:00:01,500 --> 01:00:02,000\nHi\n\n"; srt != want {
		t.Errorf("SRT = %q, want %q", srt, want)
	}

	vtt, err := Render(sub, FormatVTT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(vtt, "WEBVTT\n\n") || !strings.Contains(vtt, "00:00:01.500 --> 01:00:02.000") {
		t.Errorf("unexpected VTT output %q", vtt)
	}

	if _, err := Render(sub, Format("ass")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.srt")
	sub, err := Parse(strings.NewReader(sampleSRT), FormatSRT)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(sub, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	reread, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(reread.Entries) != len(sub.Entries) {
		t.Errorf("got %d entries after round trip, want %d", len(reread.Entries), len(sub.Entries))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "x.ass")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "abc123.mp4")
	for _, name := range []string{
		"abc123.mp4",
		"abc123.en.vtt",
		"abc123.de.srt",
		"abc123.en.live_chat.json",
		"other.en.vtt",
		"abc123.srt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	tracks, err := Discover(media)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %+v", tracks)
	}
	if tracks[0].Language != "de" || tracks[1].Language != "en" {
		t.Errorf("unexpected tracks %+v", tracks)
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := map[string]Format{
		"a.srt": FormatSRT,
		"a.VTT": FormatVTT,
		"a.ass": "",
		"noext": "",
	}
	for path, want := range tests {
		if got := FormatFromExtension(path); got != want {
			t.Errorf("FormatFromExtension(%q) = %q, want %q", path, got, want)
		}
	}
}
