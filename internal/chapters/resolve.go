package chapters

import "sort"

// Resolve turns markers into ordered, non-overlapping segments covering the
// media up to duration seconds.
//
// Markers are stable sorted by offset, later duplicates of an offset are
// dropped, and markers at or past the end of the media are discarded. Each
// segment ends where the next one starts; the last one ends at duration.
// Any gap before the first marker is not turned into a segment.
func Resolve(markers []Marker, duration int) []Segment {
	segments := []Segment{}
	if duration <= 0 || len(markers) == 0 {
		return segments
	}

	sorted := make([]Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OffsetSeconds < sorted[j].OffsetSeconds
	})

	valid := sorted[:0]
	for _, m := range sorted {
		if m.OffsetSeconds < 0 || m.OffsetSeconds >= duration {
			continue
		}
		if len(valid) > 0 && valid[len(valid)-1].OffsetSeconds == m.OffsetSeconds {
			continue
		}
		valid = append(valid, m)
	}

	for i, m := range valid {
		end := duration
		if i+1 < len(valid) {
			end = valid[i+1].OffsetSeconds
		}
		segments = append(segments, Segment{
			Index:        i,
			Title:        m.Title,
			StartSeconds: m.OffsetSeconds,
			EndSeconds:   end,
		})
	}

	return segments
}
