package chapters

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	description := "00:00 - Intro\n01:30 - Part Two\nNot a chapter line\n1:02:15 Finale"

	got := Extract(description)
	want := []Marker{
		{OffsetSeconds: 0, Title: "Intro"},
		{OffsetSeconds: 90, Title: "Part Two"},
		{OffsetSeconds: 3735, Title: "Finale"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantOK    bool
		wantSecs  int
		wantTitle string
	}{
		{"hyphen", "00:00 - Intro", true, 0, "Intro"},
		{"en dash", "0:45 – Setup", true, 45, "Setup"},
		{"em dash", "12:05—Deep Dive", true, 725, "Deep Dive"},
		{"whitespace only", "03:10 Questions", true, 190, "Questions"},
		{"hours", "1:02:15 - Finale", true, 3735, "Finale"},
		{"two digit hours", "10:00:00 Marathon", true, 36000, "Marathon"},
		{"leading whitespace", "   \t2:00 - Indented", true, 120, "Indented"},
		{"title padding", "2:00 -    Padded   ", true, 120, "Padded"},
		{"dash kept inside title", "4:00 - Q&A - Part 1", true, 240, "Q&A - Part 1"},
		{"carriage return", "5:00 - Windows\r", true, 300, "Windows"},
		{"empty title", "6:00 - ", true, 360, ""},
		{"bare timestamp", "7:00", true, 420, ""},

		{"minutes out of range", "61:00 - Nope", false, 0, ""},
		{"seconds out of range", "1:60 - Nope", false, 0, ""},
		{"hour form minutes out of range", "1:75:00 - Nope", false, 0, ""},
		{"single second digit", "1:5 - Nope", false, 0, ""},
		{"three minute digits", "100:00 - Nope", false, 0, ""},
		{"single digit minutes with hours", "1:2:03 - Nope", false, 0, ""},
		{"three hour digits", "100:00:00 - Nope", false, 0, ""},
		{"four groups", "1:02:03:04 - Nope", false, 0, ""},
		{"trailing colon", "1:02: Nope", false, 0, ""},
		{"glued suffix", "12:30pm lunch", false, 0, ""},
		{"no colon", "2024 recap", false, 0, ""},
		{"prose first", "Intro at 00:00", false, 0, ""},
		{"empty", "", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.OffsetSeconds != tt.wantSecs {
				t.Errorf(
					"parseLine(%q) offset = %d, want %d",
					tt.line,
					got.OffsetSeconds,
					tt.wantSecs,
				)
			}
			if got.Title != tt.wantTitle {
				t.Errorf(
					"parseLine(%q) title = %q, want %q",
					tt.line,
					got.Title,
					tt.wantTitle,
				)
			}
		})
	}
}

func TestExtractPlaceholderTitles(t *testing.T) {
	description := "0:00 -\ngarbage\n1:00 - Named\n2:00"

	got := Extract(description)
	want := []Marker{
		{OffsetSeconds: 0, Title: "Chapter 1"},
		{OffsetSeconds: 60, Title: "Named"},
		{OffsetSeconds: 120, Title: "Chapter 3"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractKeepsTextOrder(t *testing.T) {
	got := Extract("1:30 - B\n0:00 - A")
	if len(got) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(got))
	}
	if got[0].Title != "B" || got[1].Title != "A" {
		t.Errorf("expected text order [B A], got %+v", got)
	}
}

func TestExtractEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "no chapters here\njust text"} {
		if got := Extract(input); len(got) != 0 {
			t.Errorf("Extract(%q) = %+v, want none", input, got)
		}
	}
}

func TestExtractByteOrderMark(t *testing.T) {
	got := Extract("\ufeff0:00 - Intro")
	if len(got) != 1 || got[0].Title != "Intro" {
		t.Errorf("expected BOM to be ignored, got %+v", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		token  string
		want   int
		wantOK bool
	}{
		{"0:00", 0, true},
		{"00:59", 59, true},
		{"59:59", 3599, true},
		{"1:00:00", 3600, true},
		{" 2:03:04 ", 7384, true},
		{"99:59:59", 359999, true},
		{"1:00 - Intro", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.token)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf(
					"ParseTimestamp(%q) = %d, %v; want %d, %v",
					tt.token,
					got,
					ok,
					tt.want,
					tt.wantOK,
				)
			}
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	for _, secs := range []int{0, 5, 59, 60, 90, 3599, 3600, 3735, 86399} {
		formatted := FormatTimestamp(secs)
		got, ok := ParseTimestamp(formatted)
		if !ok || got != secs {
			t.Errorf(
				"FormatTimestamp(%d) = %q which parses to %d, %v",
				secs,
				formatted,
				got,
				ok,
			)
		}
	}
}
