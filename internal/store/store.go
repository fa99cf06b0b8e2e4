package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dndscribe/dndscribe/internal/model"
)

const schema = `
create table if not exists sessions (
	id               text primary key,
	name             text not null,
	blake3_hash      text not null unique,
	filename         text not null,
	transcript       text not null,
	language         text not null default '',
	model            text not null default '',
	device           text not null default '',
	duration_seconds real not null default 0,
	segment_count    integer not null default 0,
	fallback         boolean not null default 0,
	created_at       timestamp not null
);
create index if not exists idx_sessions_created_at on sessions (created_at desc);
`

// Store persists completed transcription sessions in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a completed session.
func (s *Store) Save(ctx context.Context, session *model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		insert into sessions (
			id, name, blake3_hash, filename, transcript, language,
			model, device, duration_seconds, segment_count, fallback, created_at
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		session.ID,
		session.Name,
		session.Hash,
		session.Filename,
		session.Transcript,
		session.Language,
		session.Model,
		session.Device,
		session.DurationSeconds,
		session.SegmentCount,
		session.Fallback,
		session.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Get returns the session with the given id, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.getWhere(ctx, "id = $1", id)
}

// GetByHash returns the session for an audio content hash, or nil when the
// recording has not been transcribed before.
func (s *Store) GetByHash(ctx context.Context, blake3Hash string) (*model.Session, error) {
	return s.getWhere(ctx, "blake3_hash = $1", blake3Hash)
}

func (s *Store) getWhere(ctx context.Context, where string, arg any) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, blake3_hash, filename, transcript, language,
			model, device, duration_seconds, segment_count, fallback, created_at
		from sessions where `+where, arg)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// List returns up to limit sessions, newest first. Transcript bodies are
// included; callers trim for listings.
func (s *Store) List(ctx context.Context, limit int) ([]*model.Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		select id, name, blake3_hash, filename, transcript, language,
			model, device, duration_seconds, segment_count, fallback, created_at
		from sessions
		order by created_at desc
		limit $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*model.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*model.Session, error) {
	var (
		session   model.Session
		createdAt time.Time
	)
	err := row.Scan(
		&session.ID,
		&session.Name,
		&session.Hash,
		&session.Filename,
		&session.Transcript,
		&session.Language,
		&session.Model,
		&session.Device,
		&session.DurationSeconds,
		&session.SegmentCount,
		&session.Fallback,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	session.CreatedAt = createdAt
	return &session, nil
}
