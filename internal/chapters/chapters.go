package chapters

import (
	"fmt"
	"time"
)

// chapter marker parsed from a single description line
type Marker struct {
	OffsetSeconds int
	Title         string
}

// resolved chapter range, ready for splitting
type Segment struct {
	Index        int
	Title        string
	StartSeconds int
	EndSeconds   int
}

func (s Segment) Start() time.Duration {
	return time.Duration(s.StartSeconds) * time.Second
}

func (s Segment) End() time.Duration {
	return time.Duration(s.EndSeconds) * time.Second
}

func (s Segment) Length() time.Duration {
	return s.End() - s.Start()
}

func (s Segment) String() string {
	return fmt.Sprintf(
		"%d [%s-%s] %s",
		s.Index,
		FormatTimestamp(s.StartSeconds),
		FormatTimestamp(s.EndSeconds),
		s.Title,
	)
}

// returns the start markers of already resolved segments
func Markers(segments []Segment) []Marker {
	markers := make([]Marker, 0, len(segments))
	for _, seg := range segments {
		markers = append(markers, Marker{
			OffsetSeconds: seg.StartSeconds,
			Title:         seg.Title,
		})
	}
	return markers
}

// renders seconds as M:SS, or H:MM:SS once an hour is reached
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
