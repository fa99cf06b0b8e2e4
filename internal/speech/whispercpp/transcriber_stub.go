//go:build !cgo
// +build !cgo

package whispercpp

import (
	"context"
	"errors"

	"github.com/dndscribe/dndscribe/internal/speech"
)

// Config describes how to initialise the whisper.cpp backend.
type Config struct {
	ModelPath      string
	DefaultOptions speech.Options
}

// Transcriber is never instantiated in non-cgo builds.
type Transcriber struct{}

// New is a no-op stub when built without CGO; returns an error so callers can
// fall back to another engine.
func New(cfg Config) (*Transcriber, error) {
	return nil, errors.New("whisper.cpp backend unavailable: built without cgo")
}

// Close implements the speech.Transcriber interface.
func (t *Transcriber) Close() {}

// Transcribe implements the speech.Transcriber interface.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, opts speech.Options) (*speech.Result, error) {
	return nil, errors.New("whisper.cpp backend unavailable: built without cgo")
}
