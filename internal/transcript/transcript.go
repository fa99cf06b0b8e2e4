package transcript

import (
	"fmt"
	"strings"
	"time"
)

// Segment is one unit of recognized speech handed over by an engine backend.
type Segment struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

const (
	titleLine      = "D&D SESSION TRANSCRIPTION"
	separatorWidth = 50

	headerTimeLayout = "2006-01-02 15:04:05"
	filenameLayout   = "20060102_150405"
)

// FormatTimestamp renders a non-negative number of seconds as zero-padded
// HH:MM:SS. The fractional part is discarded. The hour field grows beyond two
// digits for inputs of 100 hours and more. Negative input is out of contract.
func FormatTimestamp(seconds float64) string {
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Build assembles the transcript document from an ordered segment sequence and
// the generation instant. Segments are never merged, split or reordered; the
// output is a pure function of its inputs.
func Build(segments []Segment, generatedAt time.Time) string {
	lines := make([]string, 0, 4+len(segments)*3)

	lines = append(lines, titleLine)
	lines = append(lines, strings.Repeat("=", separatorWidth))
	lines = append(lines, "Generated on: "+generatedAt.Format(headerTimeLayout))
	lines = append(lines, "")

	for _, segment := range segments {
		lines = append(lines, "["+FormatTimestamp(segment.Start)+"]")
		lines = append(lines, strings.TrimSpace(segment.Text))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// Filename derives the output file name from the same generation instant used
// in the transcript header.
func Filename(generatedAt time.Time) string {
	return "dnd_session_" + generatedAt.Format(filenameLayout) + ".txt"
}
