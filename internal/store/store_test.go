package store

import (
	"context"
	"testing"
	"time"

	"github.com/dndscribe/dndscribe/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(id, hash string, createdAt time.Time) *model.Session {
	return &model.Session{
		ID:              id,
		Name:            "session-" + id + ".mp3",
		Hash:            hash,
		Filename:        "dnd_session_20240101_120000.txt",
		Transcript:      "D&D SESSION TRANSCRIPTION",
		Language:        "en",
		Model:           "large-v2",
		Device:          "cpu",
		DurationSeconds: 4210.5,
		SegmentCount:    321,
		CreatedAt:       createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := testSession("a1", "hash-a1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Hash != want.Hash || got.Transcript != want.Transcript || got.SegmentCount != want.SegmentCount {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}

func TestGetByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testSession("b2", "hash-b2", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetByHash(ctx, "hash-b2")
	if err != nil {
		t.Fatalf("get by hash: %v", err)
	}
	if got == nil || got.ID != "b2" {
		t.Errorf("expected session b2, got %+v", got)
	}

	missing, err := s.GetByHash(ctx, "hash-unknown")
	if err != nil {
		t.Fatalf("get by hash: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown hash, got %+v", missing)
	}
}

func TestFallbackSurvivesRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	degraded := testSession("f1", "hash-f1", time.Now())
	degraded.Fallback = true
	if err := s.Save(ctx, degraded); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, testSession("f2", "hash-f2", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "f1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || !got.Fallback {
		t.Errorf("fallback flag lost on roundtrip: %+v", got)
	}

	byHash, err := s.GetByHash(ctx, "hash-f1")
	if err != nil {
		t.Fatalf("get by hash: %v", err)
	}
	if byHash == nil || !byHash.Fallback {
		t.Errorf("fallback flag lost on hash lookup: %+v", byHash)
	}

	plain, err := s.Get(ctx, "f2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if plain == nil || plain.Fallback {
		t.Errorf("fallback flag invented on roundtrip: %+v", plain)
	}
}

func TestDuplicateHashRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testSession("c1", "same-hash", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, testSession("c2", "same-hash", time.Now())); err == nil {
		t.Fatal("expected unique constraint violation for duplicate hash")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"d1", "d2", "d3"} {
		if err := s.Save(ctx, testSession(id, "hash-"+id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	sessions, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "d3" || sessions[1].ID != "d2" {
		t.Errorf("unexpected order: %s, %s", sessions[0].ID, sessions[1].ID)
	}
}
