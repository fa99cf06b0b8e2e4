package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/dndscribe/dndscribe/internal/model"
)

// Scriber is the slice of the transcription service the watcher needs.
type Scriber interface {
	TranscribeFile(ctx context.Context, audioPath, originalName string) (*model.Session, error)
}

// Watcher transcribes audio files dropped into a directory.
type Watcher struct {
	dir        string
	allowed    func(name string) bool
	scribe     Scriber
	settleWait time.Duration
	maxStall   time.Duration
}

// New builds a watcher over dir. allowed filters by file name; files still
// being written are waited on until their size settles.
func New(dir string, allowed func(string) bool, scribe Scriber) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("watch directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure watch dir: %w", err)
	}
	return &Watcher{
		dir:        dir,
		allowed:    allowed,
		scribe:     scribe,
		settleWait: 500 * time.Millisecond,
		maxStall:   2 * time.Minute,
	}, nil
}

// Run blocks until ctx is cancelled, transcribing every accepted file that
// appears in the watched directory.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	log.Info().Str("dir", w.dir).Msg("watching for dropped recordings")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	if w.allowed != nil && !w.allowed(name) {
		log.Debug().Str("name", name).Msg("ignoring non-audio file")
		return
	}

	if err := w.waitSettled(ctx, path); err != nil {
		log.Err(err).Str("name", name).Msg("dropped file never settled")
		return
	}

	session, err := w.scribe.TranscribeFile(ctx, path, name)
	if err != nil {
		log.Err(err).Str("name", name).Msg("auto transcription failed")
		return
	}
	log.Info().Str("name", name).Str("id", session.ID).Bool("cached", session.Cached).Msg("auto transcription done")
}

// waitSettled polls the file size until two consecutive reads agree, so a
// recording still being copied in is not transcribed half-written. A file
// that keeps growing is waited on for as long as the copy takes; only a file
// stuck at zero bytes is abandoned, after maxStall without a byte arriving.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	var last int64 = -1
	lastChange := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleWait):
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		size := info.Size()
		switch {
		case size == last && size > 0:
			return nil
		case size != last:
			last = size
			lastChange = time.Now()
		case time.Since(lastChange) > w.maxStall:
			return fmt.Errorf("file %s stuck at %d bytes", path, size)
		}
	}
}
