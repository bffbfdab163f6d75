package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// dayFormat is how calendar-day columns (next_review, daily_status.day)
// are stored. Timestamps use RFC3339.
const dayFormat = "2006-01-02"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id             TEXT PRIMARY KEY,
		type           TEXT NOT NULL,
		raw_content    TEXT NOT NULL,
		extracted_text TEXT,
		title          TEXT,
		domain         TEXT,
		tags           TEXT,
		created_at     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cards (
		id            TEXT PRIMARY KEY,
		source_id     TEXT REFERENCES sources(id),
		question      TEXT NOT NULL,
		answer        TEXT NOT NULL,
		source_quote  TEXT,
		repetition    INTEGER NOT NULL DEFAULT 0,
		ease_factor   REAL NOT NULL DEFAULT 2.5,
		interval_days INTEGER NOT NULL DEFAULT 0,
		next_review   TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		active        INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_cards_source ON cards(source_id);
	CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(active, next_review);

	CREATE TABLE IF NOT EXISTS review_logs (
		id          TEXT PRIMARY KEY,
		card_id     TEXT NOT NULL REFERENCES cards(id),
		outcome     TEXT NOT NULL,
		reviewed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_review_logs_card ON review_logs(card_id);
	CREATE INDEX IF NOT EXISTS idx_review_logs_time ON review_logs(reviewed_at);

	CREATE TABLE IF NOT EXISTS daily_status (
		id               TEXT PRIMARY KEY,
		day              TEXT NOT NULL UNIQUE,
		energy           REAL NOT NULL,
		keyword          TEXT,
		cards_reviewed   INTEGER NOT NULL DEFAULT 0,
		cards_remembered INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prompt_logs (
		id       TEXT PRIMARY KEY,
		type     TEXT NOT NULL,
		shown_at TEXT NOT NULL,
		action   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prompt_logs_type ON prompt_logs(type, shown_at DESC);

	CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// parseRFC3339 returns the stored instant in local time so calendar-day
// grouping (weekly report, energy buckets) follows the user's day.
func parseRFC3339(v string) time.Time {
	t, _ := time.Parse(time.RFC3339, v)
	return t.Local()
}

func parseDay(v string) time.Time {
	t, _ := time.Parse(dayFormat, v)
	return t
}
