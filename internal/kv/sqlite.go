package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore keeps session values as JSONB rows in the session_values table
// created by the migrations package.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID, name string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT json(data) FROM session_values WHERE session_key = ? AND name = ?
	`, sessionKey(sessionID), name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return json.Unmarshal([]byte(data), dest)
}

func (s *SQLiteStore) Put(ctx context.Context, sessionID, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_key, name, data, updated_at)
		VALUES (?, ?, jsonb(?), ?)
		ON CONFLICT(session_key, name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, sessionKey(sessionID), name, string(data), s.timestamp(s.now()))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, sessionID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE session_key = ? AND name = ?
	`, sessionKey(sessionID), name)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Purge removes values that were not written since the given time and
// returns how many rows were dropped.
func (s *SQLiteStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE updated_at < ?
	`, s.timestamp(before))
	if err != nil {
		return 0, fmt.Errorf("purging session values: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *SQLiteStore) timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
