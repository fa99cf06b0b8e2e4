package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher() *Watcher {
	return &Watcher{
		settleWait: 5 * time.Millisecond,
		maxStall:   50 * time.Millisecond,
	}
}

func TestWaitSettledStableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := newTestWatcher().waitSettled(context.Background(), path); err != nil {
		t.Errorf("stable file should settle, got %v", err)
	}
}

func TestWaitSettledOutlastsLongCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Keep the file growing for well past maxStall, the way a large
	// recording trickles into the drop folder.
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer f.Close()
		deadline := time.Now().Add(150 * time.Millisecond)
		for time.Now().Before(deadline) {
			f.Write([]byte("chunk"))
			f.Sync()
			time.Sleep(time.Millisecond)
		}
	}()

	if err := newTestWatcher().waitSettled(context.Background(), path); err != nil {
		t.Errorf("growing file should be waited out, got %v", err)
	}
	<-done
}

func TestWaitSettledEmptyFileAbandoned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.flac")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := newTestWatcher().waitSettled(context.Background(), path); err == nil {
		t.Error("file stuck at zero bytes should be abandoned")
	}
}

func TestWaitSettledMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.mp3")
	if err := newTestWatcher().waitSettled(context.Background(), path); err == nil {
		t.Error("missing file should error")
	}
}

func TestWaitSettledCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.m4a")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newTestWatcher().waitSettled(ctx, path); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
