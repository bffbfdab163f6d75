package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// AppendReviewLog records one review event.
func (s *SQLiteStore) AppendReviewLog(ctx context.Context, cardID string, outcome model.Outcome, at time.Time) (*model.ReviewLog, error) {
	if !model.ValidOutcomes[outcome] {
		return nil, fmt.Errorf("invalid outcome: %q", outcome)
	}
	l := &model.ReviewLog{
		ID:         s.newID(),
		CardID:     cardID,
		Outcome:    outcome,
		ReviewedAt: at,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_logs (id, card_id, outcome, reviewed_at) VALUES (?, ?, ?, ?)`,
		l.ID, cardID, string(outcome), at.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert review log: %w", err)
	}
	return l, nil
}

// DeleteReviewLog removes one log entry. Only undo uses this.
func (s *SQLiteStore) DeleteReviewLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM review_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("review log not found: %s", id)
	}
	return nil
}

// ListReviewLogs returns logs matching the filters, oldest first.
func (s *SQLiteStore) ListReviewLogs(ctx context.Context, p ListReviewLogsParams) ([]model.ReviewLog, error) {
	where := []string{"1=1"}
	var args []interface{}
	if p.CardID != "" {
		where = append(where, "card_id = ?")
		args = append(args, p.CardID)
	}
	if !p.Since.IsZero() {
		where = append(where, "reviewed_at >= ?")
		args = append(args, p.Since.UTC().Format(time.RFC3339))
	}
	if !p.Until.IsZero() {
		where = append(where, "reviewed_at <= ?")
		args = append(args, p.Until.UTC().Format(time.RFC3339))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, card_id, outcome, reviewed_at FROM review_logs
		 WHERE `+strings.Join(where, " AND ")+` ORDER BY reviewed_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.ReviewLog
	for rows.Next() {
		var l model.ReviewLog
		var outcome, reviewedAt string
		if err := rows.Scan(&l.ID, &l.CardID, &outcome, &reviewedAt); err != nil {
			return nil, err
		}
		l.Outcome = model.Outcome(outcome)
		l.ReviewedAt = parseRFC3339(reviewedAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
