package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string `json:"db_path"`
	DBSizeBytes  int64  `json:"db_size_bytes"`
	TotalSources int    `json:"total_sources"`
	TotalCards   int    `json:"total_cards"`
	ActiveCards  int    `json:"active_cards"`
	TotalReviews int    `json:"total_reviews"`
	StatusDays   int    `json:"status_days"`
	PromptsShown int    `json:"prompts_shown"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&st.TotalSources)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&st.TotalCards)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE active = 1`).Scan(&st.ActiveCards)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_logs`).Scan(&st.TotalReviews)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_status`).Scan(&st.StatusDays)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompt_logs`).Scan(&st.PromptsShown)

	return st, nil
}
