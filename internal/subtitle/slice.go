package subtitle

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Slice returns the cues overlapping [start, end), clipped to that window
// and shifted so the window begins at zero.
func Slice(sub *Subtitle, start, end time.Duration) *Subtitle {
	out := &Subtitle{Language: sub.Language, Format: sub.Format}
	for _, e := range sub.Entries {
		if e.EndTime <= start || e.StartTime >= end {
			continue
		}
		s, t := e.StartTime, e.EndTime
		if s < start {
			s = start
		}
		if t > end {
			t = end
		}
		out.Entries = append(out.Entries, Entry{
			Index:     len(out.Entries) + 1,
			StartTime: s - start,
			EndTime:   t - start,
			Text:      e.Text,
		})
	}
	return out
}

// a subtitle file found next to downloaded media
type Track struct {
	Path     string
	Language string
}

// Discover finds "<base>.<lang>.srt|vtt" files next to mediaPath, as
// written by yt-dlp. Tracks are sorted by language.
func Discover(mediaPath string) ([]Track, error) {
	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base+".") {
			continue
		}
		if FormatFromExtension(name) == "" {
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, base+"."), filepath.Ext(name))
		if lang == "" || strings.Contains(lang, ".") {
			continue
		}
		tracks = append(tracks, Track{
			Path:     filepath.Join(dir, name),
			Language: lang,
		})
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].Language < tracks[j].Language
	})
	return tracks, nil
}
