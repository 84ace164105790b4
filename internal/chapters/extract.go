package chapters

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extract scans a free-text video description for lines that begin with a
// timestamp and returns one Marker per qualifying line, in text order.
//
// Accepted timestamps are M:SS, MM:SS, H:MM:SS and HH:MM:SS. The timestamp
// may be followed by a hyphen, en dash or em dash, by whitespace, or by
// nothing at all. Lines that don't qualify are skipped; Extract never fails.
func Extract(description string) []Marker {
	var markers []Marker
	if description == "" {
		return markers
	}

	for i, line := range strings.Split(description, "\n") {
		if i == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		marker, ok := parseLine(line)
		if !ok {
			continue
		}
		if marker.Title == "" {
			marker.Title = fmt.Sprintf("Chapter %d", len(markers)+1)
		}
		markers = append(markers, marker)
	}

	return markers
}

// ParseTimestamp converts a complete timestamp token to whole seconds.
func ParseTimestamp(token string) (int, bool) {
	seconds, rest, ok := scanTimestamp(strings.TrimSpace(token))
	if !ok || rest != "" {
		return 0, false
	}
	return seconds, true
}

func parseLine(line string) (Marker, bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)

	seconds, rest, ok := scanTimestamp(line)
	if !ok {
		return Marker{}, false
	}

	// the timestamp must end at a separator, e.g. "12:30pm" is not a marker
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) && !isDash(r) {
			return Marker{}, false
		}
	}

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if r, size := utf8.DecodeRuneInString(rest); isDash(r) {
		rest = rest[size:]
	}

	return Marker{
		OffsetSeconds: seconds,
		Title:         strings.TrimSpace(rest),
	}, true
}

// reads a leading timestamp and returns its value in seconds plus the
// unconsumed remainder of s
func scanTimestamp(s string) (int, string, bool) {
	var groups []string
	pos := 0
	for {
		start := pos
		for pos < len(s) && isDigit(s[pos]) {
			pos++
		}
		if pos == start {
			return 0, s, false
		}
		groups = append(groups, s[start:pos])
		if len(groups) > 3 {
			return 0, s, false
		}
		if pos < len(s) && s[pos] == ':' {
			pos++
			continue
		}
		break
	}

	var h, m, sec int
	switch len(groups) {
	case 2:
		if !digitsIn(groups[0], 1, 2) || !digitsIn(groups[1], 2, 2) {
			return 0, s, false
		}
		m, sec = atoi(groups[0]), atoi(groups[1])
	case 3:
		if !digitsIn(groups[0], 1, 2) ||
			!digitsIn(groups[1], 2, 2) ||
			!digitsIn(groups[2], 2, 2) {
			return 0, s, false
		}
		h, m, sec = atoi(groups[0]), atoi(groups[1]), atoi(groups[2])
	default:
		return 0, s, false
	}

	if m >= 60 || sec >= 60 {
		return 0, s, false
	}

	return h*3600 + m*60 + sec, s[pos:], true
}

func isDash(r rune) bool {
	switch r {
	case '-', '–', '—':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func digitsIn(group string, min, max int) bool {
	return len(group) >= min && len(group) <= max
}

// group is known to hold at most two ASCII digits
func atoi(group string) int {
	n := 0
	for i := 0; i < len(group); i++ {
		n = n*10 + int(group[i]-'0')
	}
	return n
}
