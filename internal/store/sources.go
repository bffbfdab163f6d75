package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// CreateSource stores a new source.
func (s *SQLiteStore) CreateSource(ctx context.Context, p CreateSourceParams) (*model.Source, error) {
	now := time.Now().UTC()
	src := &model.Source{
		ID:            s.newID(),
		Type:          p.Type,
		RawContent:    p.RawContent,
		ExtractedText: p.ExtractedText,
		Title:         p.Title,
		Domain:        p.Domain,
		Tags:          p.Tags,
		CreatedAt:     now,
	}

	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		v := string(b)
		tagsJSON = &v
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (id, type, raw_content, extracted_text, title, domain, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, string(p.Type), p.RawContent, p.ExtractedText, p.Title, p.Domain,
		tagsJSON, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}
	return src, nil
}

// GetSource retrieves a source by ID.
func (s *SQLiteStore) GetSource(ctx context.Context, id string) (*model.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, raw_content, extracted_text, title, domain, tags, created_at
		 FROM sources WHERE id = ?`, id)
	src, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// ListSources returns all sources, newest first.
func (s *SQLiteStore) ListSources(ctx context.Context) ([]model.Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, raw_content, extracted_text, title, domain, tags, created_at
		 FROM sources ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source and everything it owns. Children go first
// so a partial failure cannot orphan review logs.
func (s *SQLiteStore) DeleteSource(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM review_logs WHERE card_id IN (SELECT id FROM cards WHERE source_id = ?)`, id); err != nil {
		return fmt.Errorf("delete source review logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE source_id = ?`, id); err != nil {
		return fmt.Errorf("delete source cards: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source not found: %s", id)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(r rowScanner) (*model.Source, error) {
	var src model.Source
	var typ, createdAt string
	var extracted, title, domain, tags sql.NullString

	if err := r.Scan(&src.ID, &typ, &src.RawContent, &extracted, &title, &domain, &tags, &createdAt); err != nil {
		return nil, err
	}
	src.Type = model.SourceType(typ)
	src.ExtractedText = extracted.String
	src.Title = title.String
	src.Domain = domain.String
	src.CreatedAt = parseRFC3339(createdAt)
	if tags.Valid && tags.String != "" {
		json.Unmarshal([]byte(tags.String), &src.Tags)
	}
	return &src, nil
}
