package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Render serializes sub in the given format, renumbering cues from 1.
func Render(sub *Subtitle, format Format) (string, error) {
	var sb strings.Builder
	sep := ","

	switch format {
	case FormatSRT:
	case FormatVTT:
		sb.WriteString("WEBVTT\n\n")
		sep = "."
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	for i, entry := range sub.Entries {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			i+1,
			formatCueTime(entry.StartTime, sep),
			formatCueTime(entry.EndTime, sep),
			entry.Text,
		)
	}
	return sb.String(), nil
}

// Write renders sub to path in the format implied by its extension.
func Write(sub *Subtitle, path string) error {
	format := FormatFromExtension(path)
	if format == "" {
		return fmt.Errorf("unsupported subtitle format: %s", path)
	}
	data, err := Render(sub, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0644)
}

func formatCueTime(d time.Duration, sep string) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, minutes, seconds, sep, millis)
}
