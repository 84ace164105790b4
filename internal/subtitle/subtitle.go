package subtitle

import (
	"path/filepath"
	"strings"
	"time"
)

// represents single subtitle cue
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   Format
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// subtitle format based on file extension, "" when unsupported
func FormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	default:
		return ""
	}
}

// file extension for a format
func (f Format) Extension() string {
	return "." + string(f)
}
