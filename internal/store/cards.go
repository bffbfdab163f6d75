package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// CreateCards inserts a batch of cards with the initial SM-2 state, all in
// one transaction so an AI-generated batch lands whole or not at all.
func (s *SQLiteStore) CreateCards(ctx context.Context, params []CreateCardParams) ([]model.Card, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	cards := make([]model.Card, 0, len(params))
	for _, p := range params {
		c := model.NewCard(p.Question, p.Answer, p.SourceQuote, p.SourceID, now)
		c.ID = s.newID()

		var sourceID *string
		if p.SourceID != "" {
			sourceID = &p.SourceID
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cards (id, source_id, question, answer, source_quote, repetition, ease_factor, interval_days, next_review, created_at, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			c.ID, sourceID, c.Question, c.Answer, c.SourceQuote,
			c.Repetition, c.EaseFactor, c.Interval,
			c.NextReview.Format(dayFormat), now.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("insert card: %w", err)
		}
		cards = append(cards, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard retrieves a card by ID.
func (s *SQLiteStore) GetCard(ctx context.Context, id string) (*model.Card, error) {
	row := s.db.QueryRowContext(ctx, cardSelect+` WHERE id = ?`, id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCards returns cards matching the filters, newest first.
func (s *SQLiteStore) ListCards(ctx context.Context, p ListCardsParams) ([]model.Card, error) {
	where := []string{"1=1"}
	var args []interface{}
	if p.SourceID != "" {
		where = append(where, "source_id = ?")
		args = append(args, p.SourceID)
	}
	if p.ActiveOnly {
		where = append(where, "active = 1")
	}

	rows, err := s.db.QueryContext(ctx,
		cardSelect+` WHERE `+strings.Join(where, " AND ")+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// UpdateCardReview persists the card's SM-2 fields after a review (or an
// undo restoring the pre-review snapshot).
func (s *SQLiteStore) UpdateCardReview(ctx context.Context, c *model.Card) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cards SET repetition = ?, ease_factor = ?, interval_days = ?, next_review = ? WHERE id = ?`,
		c.Repetition, c.EaseFactor, c.Interval, c.NextReview.Format(dayFormat), c.ID)
	if err != nil {
		return fmt.Errorf("update card review state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card not found: %s", c.ID)
	}
	return nil
}

// SetCardActive archives (false) or restores (true) a card.
func (s *SQLiteStore) SetCardActive(ctx context.Context, id string, active bool) error {
	v := 0
	if active {
		v = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE cards SET active = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("set card active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card not found: %s", id)
	}
	return nil
}

// DeleteCard removes a card and its review logs in one transaction.
func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_logs WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("delete card review logs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card not found: %s", id)
	}

	return tx.Commit()
}

// CountCards returns the total number of cards, archived included.
func (s *SQLiteStore) CountCards(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

const cardSelect = `SELECT id, source_id, question, answer, source_quote, repetition, ease_factor, interval_days, next_review, created_at, active FROM cards`

func scanCard(r rowScanner) (*model.Card, error) {
	var c model.Card
	var sourceID, quote sql.NullString
	var nextReview, createdAt string
	var active int

	if err := r.Scan(&c.ID, &sourceID, &c.Question, &c.Answer, &quote,
		&c.Repetition, &c.EaseFactor, &c.Interval, &nextReview, &createdAt, &active); err != nil {
		return nil, err
	}
	c.SourceID = sourceID.String
	c.SourceQuote = quote.String
	c.NextReview = parseDay(nextReview)
	c.CreatedAt = parseRFC3339(createdAt)
	c.Active = active == 1
	return &c, nil
}
