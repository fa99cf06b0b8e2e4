package transcript

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{59.94, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{3661.7, "01:01:01"},
		{86399, "23:59:59"},
		{86400, "24:00:00"},
		{360000, "100:00:00"},
		{360000 + 3661, "101:01:01"},
	}

	for _, c := range cases {
		if got := FormatTimestamp(c.seconds); got != c.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestBuildEndToEnd(t *testing.T) {
	generatedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	segments := []Segment{
		{Start: 0, Text: "Welcome"},
		{Start: 65, Text: "Let's begin."},
	}

	want := strings.Join([]string{
		"D&D SESSION TRANSCRIPTION",
		strings.Repeat("=", 50),
		"Generated on: 2024-01-01 12:00:00",
		"",
		"[00:00:00]",
		"Welcome",
		"",
		"[00:01:05]",
		"Let's begin.",
		"",
	}, "\n")

	if got := Build(segments, generatedAt); got != want {
		t.Errorf("Build() mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	generatedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	got := Build(nil, generatedAt)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 header lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "D&D SESSION TRANSCRIPTION" {
		t.Errorf("unexpected title line %q", lines[0])
	}
	if lines[1] != strings.Repeat("=", 50) {
		t.Errorf("unexpected separator line %q", lines[1])
	}
	if lines[2] != "Generated on: 2024-01-01 12:00:00" {
		t.Errorf("unexpected generated-on line %q", lines[2])
	}
	if lines[3] != "" {
		t.Errorf("expected trailing blank line, got %q", lines[3])
	}
}

func TestBuildStripsWhitespace(t *testing.T) {
	generatedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	got := Build([]Segment{{Start: 1, Text: "  hello world  \n"}}, generatedAt)

	if !strings.Contains(got, "\nhello world\n") {
		t.Errorf("segment text not trimmed: %q", got)
	}
	if strings.Contains(got, "  hello world") {
		t.Errorf("leading whitespace survived: %q", got)
	}
}

func TestBuildPreservesOrder(t *testing.T) {
	generatedAt := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	segments := []Segment{
		{Start: 30, Text: "third spoken, first listed"},
		{Start: 10, Text: "second"},
		{Start: 20, Text: "first spoken, last listed"},
	}

	got := Build(segments, generatedAt)
	idx := make([]int, len(segments))
	for i, segment := range segments {
		idx[i] = strings.Index(got, strings.TrimSpace(segment.Text))
		if idx[i] < 0 {
			t.Fatalf("segment %d missing from output", i)
		}
	}
	if !(idx[0] < idx[1] && idx[1] < idx[2]) {
		t.Errorf("segments reordered: offsets %v", idx)
	}
}

func TestBuildIsPure(t *testing.T) {
	generatedAt := time.Date(2024, 3, 15, 20, 45, 12, 0, time.UTC)
	segments := []Segment{
		{Start: 0, Text: "roll for initiative"},
		{Start: 12.4, Text: "natural twenty"},
	}

	first := Build(segments, generatedAt)
	second := Build(segments, generatedAt)
	if first != second {
		t.Error("identical inputs produced different documents")
	}
}

func TestFilename(t *testing.T) {
	generatedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got, want := Filename(generatedAt), "dnd_session_20240101_120000.txt"; got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	generatedAt = time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	if got, want := Filename(generatedAt), "dnd_session_20251231_235959.txt"; got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}
