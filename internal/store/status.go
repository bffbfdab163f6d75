package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// UpsertDailyStatus saves the day's energy/mood record, overwriting any
// existing record for that calendar day.
func (s *SQLiteStore) UpsertDailyStatus(ctx context.Context, st model.DailyStatus) (*model.DailyStatus, error) {
	day := model.StartOfDay(st.Date)
	now := time.Now().UTC()

	st.Date = day
	if st.ID == "" {
		st.ID = s.newID()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}

	var keyword *string
	if st.Keyword != "" {
		keyword = &st.Keyword
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_status (id, day, energy, keyword, cards_reviewed, cards_remembered, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
			energy = excluded.energy,
			keyword = excluded.keyword,
			cards_reviewed = excluded.cards_reviewed,
			cards_remembered = excluded.cards_remembered`,
		st.ID, day.Format(dayFormat), st.EnergyLevel, keyword,
		st.CardsReviewed, st.CardsRemembered, st.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("upsert daily status: %w", err)
	}

	// On conflict the original row id survives; read it back.
	row := s.db.QueryRowContext(ctx, statusSelect+` WHERE day = ?`, day.Format(dayFormat))
	saved, err := scanStatus(row)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteDailyStatus removes the record for the given calendar day, if any.
func (s *SQLiteStore) DeleteDailyStatus(ctx context.Context, day time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_status WHERE day = ?`, model.StartOfDay(day).Format(dayFormat))
	if err != nil {
		return fmt.Errorf("delete daily status: %w", err)
	}
	return nil
}

// ListDailyStatuses returns all status records, newest day first.
func (s *SQLiteStore) ListDailyStatuses(ctx context.Context) ([]model.DailyStatus, error) {
	rows, err := s.db.QueryContext(ctx, statusSelect+` ORDER BY day DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []model.DailyStatus
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *st)
	}
	return statuses, rows.Err()
}

const statusSelect = `SELECT id, day, energy, keyword, cards_reviewed, cards_remembered, created_at FROM daily_status`

func scanStatus(r rowScanner) (*model.DailyStatus, error) {
	var st model.DailyStatus
	var day, createdAt string
	var keyword sql.NullString

	if err := r.Scan(&st.ID, &day, &st.EnergyLevel, &keyword,
		&st.CardsReviewed, &st.CardsRemembered, &createdAt); err != nil {
		return nil, err
	}
	st.Date = parseDay(day)
	st.Keyword = keyword.String
	st.CreatedAt = parseRFC3339(createdAt)
	return &st, nil
}
