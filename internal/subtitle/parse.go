package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// matches "00:01:02,345 --> 00:01:04,000" as well as the VTT forms
// "01:02.345 --> 01:04.000" with optional hours and trailing cue settings
var cueTimingRegex = regexp.MustCompile(
	`^((?:\d+:)?\d{2}:\d{2}[,.]\d{3})\s*-->\s*((?:\d+:)?\d{2}:\d{2}[,.]\d{3})`,
)

// Open parses an SRT or VTT file, picking the format from its extension.
func Open(path string) (*Subtitle, error) {
	format := FormatFromExtension(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sub, err := Parse(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sub, nil
}

// Parse reads cues from r. SRT and VTT share a block layout: an optional
// identifier line, a timing line, then text up to a blank line.
func Parse(r io.Reader, format Format) (*Subtitle, error) {
	var (
		entries   []Entry
		current   *Entry
		textLines []string
		lineNum   int
	)

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			entries = append(entries, *current)
		}
		current = nil
		textLines = nil
	}

	scanner := bufio.NewScanner(r)
	skipBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}

		if format == FormatVTT && current == nil {
			switch {
			case strings.HasPrefix(trimmed, "WEBVTT"),
				strings.HasPrefix(trimmed, "NOTE"),
				strings.HasPrefix(trimmed, "STYLE"),
				strings.HasPrefix(trimmed, "REGION"):
				skipBlock = true
				continue
			}
		}

		if m := cueTimingRegex.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, err := parseCueTime(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := parseCueTime(m[2])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			current = &Entry{
				Index:     len(entries) + 1,
				StartTime: start,
				EndTime:   end,
			}
			continue
		}

		// SRT counters and VTT cue identifiers precede the timing line
		if current == nil {
			continue
		}
		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading subtitles: %w", err)
	}

	return &Subtitle{Entries: entries, Format: format}, nil
}

// parses [h:]mm:ss,mmm or [h:]mm:ss.mmm
func parseCueTime(value string) (time.Duration, error) {
	value = strings.Replace(value, ",", ".", 1)
	clock, fraction, _ := strings.Cut(value, ".")

	parts := strings.Split(clock, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", value)
	}

	var fields [4]int
	for i, p := range append(parts, fraction) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		fields[i] = n
	}
	if fields[1] >= 60 || fields[2] >= 60 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}

	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second +
		time.Duration(fields[3])*time.Millisecond, nil
}
