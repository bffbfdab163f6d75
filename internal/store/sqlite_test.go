package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndListCards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, err := s.CreateCards(ctx, []CreateCardParams{
		{Question: "What is SM-2?", Answer: "A spaced-repetition algorithm"},
		{Question: "Ease floor?", Answer: "1.3"},
	})
	if err != nil {
		t.Fatalf("create cards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("created %d cards, want 2", len(cards))
	}
	if cards[0].ID == "" {
		t.Error("expected non-empty ID")
	}
	if cards[0].EaseFactor != 2.5 || cards[0].Repetition != 0 {
		t.Errorf("new card state = ease %v rep %d, want 2.5/0", cards[0].EaseFactor, cards[0].Repetition)
	}

	got, err := s.ListCards(ctx, ListCardsParams{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("listed %d cards, want 2", len(got))
	}
}

func TestUpdateCardReviewRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})
	c := cards[0]
	c.Repetition = 3
	c.EaseFactor = 2.1
	c.Interval = 15
	c.NextReview = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	if err := s.UpdateCardReview(ctx, &c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Repetition != 3 || got.EaseFactor != 2.1 || got.Interval != 15 {
		t.Errorf("got rep %d ease %v interval %d", got.Repetition, got.EaseFactor, got.Interval)
	}
	if !got.NextReview.Equal(c.NextReview) {
		t.Errorf("next review = %v, want %v", got.NextReview, c.NextReview)
	}
}

func TestArchiveRestoreCard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})

	if err := s.SetCardActive(ctx, cards[0].ID, false); err != nil {
		t.Fatalf("archive: %v", err)
	}
	active, _ := s.ListCards(ctx, ListCardsParams{ActiveOnly: true})
	if len(active) != 0 {
		t.Errorf("archived card still listed as active")
	}

	if err := s.SetCardActive(ctx, cards[0].ID, true); err != nil {
		t.Fatalf("restore: %v", err)
	}
	active, _ = s.ListCards(ctx, ListCardsParams{ActiveOnly: true})
	if len(active) != 1 {
		t.Errorf("restored card not listed as active")
	}
}

func TestDeleteSourceCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	src, err := s.CreateSource(ctx, CreateSourceParams{
		Type: model.SourceText, RawContent: "some article", Tags: []string{"go"},
	})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	cards, _ := s.CreateCards(ctx, []CreateCardParams{
		{SourceID: src.ID, Question: "q1", Answer: "a1"},
		{SourceID: src.ID, Question: "q2", Answer: "a2"},
	})
	s.AppendReviewLog(ctx, cards[0].ID, model.OutcomeRemembered, time.Now())

	if err := s.DeleteSource(ctx, src.ID); err != nil {
		t.Fatalf("delete source: %v", err)
	}

	left, _ := s.ListCards(ctx, ListCardsParams{})
	if len(left) != 0 {
		t.Errorf("%d cards survived cascade", len(left))
	}
	logs, _ := s.ListReviewLogs(ctx, ListReviewLogsParams{})
	if len(logs) != 0 {
		t.Errorf("%d review logs survived cascade", len(logs))
	}
	if _, err := s.GetSource(ctx, src.ID); err == nil {
		t.Error("source still present after delete")
	}
}

func TestDeleteCardCascadesLogs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})
	s.AppendReviewLog(ctx, cards[0].ID, model.OutcomeForgot, time.Now())

	if err := s.DeleteCard(ctx, cards[0].ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	logs, _ := s.ListReviewLogs(ctx, ListReviewLogsParams{})
	if len(logs) != 0 {
		t.Errorf("%d logs survived card delete", len(logs))
	}
}

func TestReviewLogAppendDeleteList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	l1, err := s.AppendReviewLog(ctx, cards[0].ID, model.OutcomeRemembered, now)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	s.AppendReviewLog(ctx, cards[0].ID, model.OutcomeForgot, now.Add(time.Minute))

	logs, _ := s.ListReviewLogs(ctx, ListReviewLogsParams{CardID: cards[0].ID})
	if len(logs) != 2 {
		t.Fatalf("listed %d logs, want 2", len(logs))
	}
	if logs[0].Outcome != model.OutcomeRemembered {
		t.Errorf("logs not oldest-first")
	}

	// range filter
	ranged, _ := s.ListReviewLogs(ctx, ListReviewLogsParams{Since: now.Add(30 * time.Second)})
	if len(ranged) != 1 {
		t.Errorf("range filter returned %d logs, want 1", len(ranged))
	}

	if err := s.DeleteReviewLog(ctx, l1.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	logs, _ = s.ListReviewLogs(ctx, ListReviewLogsParams{})
	if len(logs) != 1 {
		t.Errorf("%d logs after delete, want 1", len(logs))
	}

	if _, err := s.AppendReviewLog(ctx, cards[0].ID, model.Outcome("maybe"), now); err == nil {
		t.Error("invalid outcome accepted")
	}
}

func TestReviewLogKeepsLocalDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})

	// An early-morning review east of UTC lands on the previous UTC day.
	// The instant must survive the round trip and come back in local time so
	// day grouping attributes it to the reviewer's calendar day.
	morning := time.Date(2025, 6, 10, 7, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60))
	if _, err := s.AppendReviewLog(ctx, cards[0].ID, model.OutcomeRemembered, morning); err != nil {
		t.Fatalf("append: %v", err)
	}

	logs, err := s.ListReviewLogs(ctx, ListReviewLogsParams{CardID: cards[0].ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := logs[0].ReviewedAt
	if !got.Equal(morning) {
		t.Errorf("instant changed in round trip: %v, want %v", got, morning)
	}
	if !model.SameDay(got, morning.In(time.Local)) {
		t.Errorf("reviewed-at day = %v, want the local day of %v", got, morning)
	}
}

func TestDailyStatusUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	first, err := s.UpsertDailyStatus(ctx, model.DailyStatus{
		Date: day, EnergyLevel: 6, Keyword: "focused", CardsReviewed: 5, CardsRemembered: 4,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Same calendar day overwrites instead of inserting.
	second, err := s.UpsertDailyStatus(ctx, model.DailyStatus{
		Date: day.Add(2 * time.Hour), EnergyLevel: 8, CardsReviewed: 8, CardsRemembered: 7,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a second record for the same day")
	}
	if second.EnergyLevel != 8 {
		t.Errorf("energy = %v, want 8", second.EnergyLevel)
	}
	if second.Keyword != "" {
		t.Errorf("keyword = %q, want overwritten to empty", second.Keyword)
	}

	all, _ := s.ListDailyStatuses(ctx)
	if len(all) != 1 {
		t.Fatalf("%d status records, want 1", len(all))
	}

	if err := s.DeleteDailyStatus(ctx, day); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = s.ListDailyStatuses(ctx)
	if len(all) != 0 {
		t.Errorf("status record survived delete")
	}
}

func TestPromptLogAndCounters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	last, err := s.LastPromptTime(ctx, model.PromptSubscription)
	if err != nil {
		t.Fatalf("last prompt: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil last prompt, got %v", last)
	}

	shown := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if _, err := s.AppendPromptLog(ctx, model.PromptSubscription, model.ActionDismissed, shown); err != nil {
		t.Fatalf("append prompt: %v", err)
	}
	s.AppendPromptLog(ctx, model.PromptSubscription, model.ActionTapped, shown.AddDate(0, 0, 20))

	last, _ = s.LastPromptTime(ctx, model.PromptSubscription)
	if last == nil || !last.Equal(shown.AddDate(0, 0, 20)) {
		t.Errorf("last prompt = %v, want most recent", last)
	}

	if _, err := s.AppendPromptLog(ctx, model.PromptSubscription, model.PromptAction("ignored"), shown); err == nil {
		t.Error("invalid prompt action accepted")
	}

	for i := 0; i < 3; i++ {
		if _, err := s.IncrCounter(ctx, CounterReportViews); err != nil {
			t.Fatalf("incr: %v", err)
		}
	}
	n, err := s.GetCounter(ctx, CounterReportViews)
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	if n != 3 {
		t.Errorf("counter = %d, want 3", n)
	}
	if n, _ := s.GetCounter(ctx, "unknown"); n != 0 {
		t.Errorf("unknown counter = %d, want 0", n)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	cards, _ := s.CreateCards(ctx, []CreateCardParams{{Question: "q", Answer: "a"}})
	s.SetCardActive(ctx, cards[0].ID, false)

	st, err := s.Stats(ctx, path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalCards != 1 || st.ActiveCards != 0 {
		t.Errorf("stats = %+v, want 1 total / 0 active", st)
	}
}
