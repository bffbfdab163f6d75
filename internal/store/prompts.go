package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// AppendPromptLog records that a prompt was shown and what the user did.
func (s *SQLiteStore) AppendPromptLog(ctx context.Context, typ model.PromptType, action model.PromptAction, at time.Time) (*model.PromptLog, error) {
	if !model.ValidPromptActions[action] {
		return nil, fmt.Errorf("invalid prompt action: %q", action)
	}
	l := &model.PromptLog{
		ID:      s.newID(),
		Type:    typ,
		ShownAt: at,
		Action:  action,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prompt_logs (id, type, shown_at, action) VALUES (?, ?, ?, ?)`,
		l.ID, string(typ), at.UTC().Format(time.RFC3339), string(action))
	if err != nil {
		return nil, fmt.Errorf("insert prompt log: %w", err)
	}
	return l, nil
}

// LastPromptTime returns when a prompt of the given type was last shown,
// or nil if never.
func (s *SQLiteStore) LastPromptTime(ctx context.Context, typ model.PromptType) (*time.Time, error) {
	var shownAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT shown_at FROM prompt_logs WHERE type = ? ORDER BY shown_at DESC LIMIT 1`,
		string(typ)).Scan(&shownAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := parseRFC3339(shownAt)
	return &t, nil
}

// IncrCounter adds one to a named counter and returns the new value.
func (s *SQLiteStore) IncrCounter(ctx context.Context, name string) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`, name)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	return s.GetCounter(ctx, name)
}

// GetCounter returns a named counter, 0 if never incremented.
func (s *SQLiteStore) GetCounter(ctx context.Context, name string) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}
