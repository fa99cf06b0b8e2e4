package model

import "time"

// Session is one completed transcription pass: the uploaded recording's
// identity, the produced transcript, and how the pass ran.
type Session struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Hash            string    `json:"hash"`
	Filename        string    `json:"filename"`
	Transcript      string    `json:"transcript"`
	Language        string    `json:"language,omitempty"`
	Model           string    `json:"model"`
	Device          string    `json:"device"`
	DurationSeconds float64   `json:"duration_seconds"`
	SegmentCount    int       `json:"segment_count"`
	Fallback        bool      `json:"fallback,omitempty"`
	Cached          bool      `json:"cached,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
