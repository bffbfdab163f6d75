package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

var today = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func newCard(id string, rep int, ease float64, interval int, due time.Time) model.Card {
	return model.Card{
		ID:         id,
		Question:   "q-" + id,
		Answer:     "a-" + id,
		Repetition: rep,
		EaseFactor: ease,
		Interval:   interval,
		NextReview: due,
		CreatedAt:  today.AddDate(0, 0, -30),
		Active:     true,
	}
}

func TestProcessReview_FirstRemembered(t *testing.T) {
	c := newCard("c1", 0, 2.5, 0, today)
	ProcessReview(&c, model.OutcomeRemembered, today)

	if c.Interval != 1 {
		t.Errorf("interval = %d, want 1", c.Interval)
	}
	if c.Repetition != 1 {
		t.Errorf("repetition = %d, want 1", c.Repetition)
	}
	if c.EaseFactor != 2.6 {
		t.Errorf("ease = %v, want 2.6", c.EaseFactor)
	}
	want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !c.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", c.NextReview, want)
	}
}

func TestProcessReview_SecondRemembered(t *testing.T) {
	c := newCard("c1", 1, 2.6, 1, today)
	ProcessReview(&c, model.OutcomeRemembered, today)

	if c.Interval != 6 {
		t.Errorf("interval = %d, want 6", c.Interval)
	}
	if c.Repetition != 2 {
		t.Errorf("repetition = %d, want 2", c.Repetition)
	}
}

func TestProcessReview_MatureRemembered(t *testing.T) {
	c := newCard("c1", 2, 2.5, 6, today)
	ProcessReview(&c, model.OutcomeRemembered, today)

	// round(6 * 2.5) = 15
	if c.Interval != 15 {
		t.Errorf("interval = %d, want 15", c.Interval)
	}
	want := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	if !c.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", c.NextReview, want)
	}
}

func TestProcessReview_Forgot(t *testing.T) {
	c := newCard("c1", 5, 2.1, 30, today)
	ProcessReview(&c, model.OutcomeForgot, today)

	if c.Repetition != 0 {
		t.Errorf("repetition = %d, want 0", c.Repetition)
	}
	if c.Interval != 1 {
		t.Errorf("interval = %d, want 1", c.Interval)
	}
	if diff := c.EaseFactor - 1.9; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ease = %v, want 1.9", c.EaseFactor)
	}
	want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !c.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", c.NextReview, want)
	}
}

func TestProcessReview_EaseFloor(t *testing.T) {
	c := newCard("c1", 3, 1.5, 10, today)
	for i := 0; i < 10; i++ {
		ProcessReview(&c, model.OutcomeForgot, today)
		if c.EaseFactor < MinEase {
			t.Fatalf("ease dropped below floor after %d forgets: %v", i+1, c.EaseFactor)
		}
	}
	if c.EaseFactor != MinEase {
		t.Errorf("ease = %v, want exactly %v", c.EaseFactor, MinEase)
	}
}

func TestSelectTodayCards_OrdersByOverdueThenEase(t *testing.T) {
	cards := []model.Card{
		newCard("recent", 3, 2.0, 5, today.AddDate(0, 0, -1)),
		newCard("old-easy", 3, 2.8, 5, today.AddDate(0, 0, -4)),
		newCard("old-hard", 3, 1.5, 5, today.AddDate(0, 0, -4)),
		newCard("future", 3, 2.0, 5, today.AddDate(0, 0, 3)),
	}

	got := SelectTodayCards(cards, today, DefaultPolicy())
	if len(got) != 3 {
		t.Fatalf("selected %d cards, want 3", len(got))
	}
	wantOrder := []string{"old-hard", "old-easy", "recent"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSelectTodayCards_CapsAtMaxDaily(t *testing.T) {
	var cards []model.Card
	for i := 0; i < 20; i++ {
		cards = append(cards, newCard(fmt.Sprintf("c%d", i), 2, 2.5, 3, today.AddDate(0, 0, -i)))
	}
	got := SelectTodayCards(cards, today, DefaultPolicy())
	if len(got) != 8 {
		t.Errorf("selected %d cards, want 8", len(got))
	}
}

func TestSelectTodayCards_SupplementsWithNewest(t *testing.T) {
	due := newCard("due", 2, 2.5, 3, today.AddDate(0, 0, -1))
	older := newCard("older-new", 0, 2.5, 0, today.AddDate(0, 0, 5))
	older.CreatedAt = today.AddDate(0, 0, -10)
	newer := newCard("newer-new", 0, 2.5, 0, today.AddDate(0, 0, 5))
	newer.CreatedAt = today.AddDate(0, 0, -2)
	extra := newCard("extra-new", 0, 2.5, 0, today.AddDate(0, 0, 5))
	extra.CreatedAt = today.AddDate(0, 0, -20)

	got := SelectTodayCards([]model.Card{older, due, newer, extra}, today, DefaultPolicy())
	if len(got) != 3 {
		t.Fatalf("selected %d cards, want 3", len(got))
	}
	if got[0].ID != "due" {
		t.Errorf("first card = %s, want due", got[0].ID)
	}
	// supplements are newest-created first
	if got[1].ID != "newer-new" || got[2].ID != "older-new" {
		t.Errorf("supplements = %s, %s; want newer-new, older-new", got[1].ID, got[2].ID)
	}
}

func TestSelectTodayCards_SkipsInactiveAndExhaustsSupply(t *testing.T) {
	archived := newCard("archived", 0, 2.5, 0, today.AddDate(0, 0, -2))
	archived.Active = false
	fresh := newCard("fresh", 0, 2.5, 0, today.AddDate(0, 0, 5))

	got := SelectTodayCards([]model.Card{archived, fresh}, today, DefaultPolicy())
	if len(got) != 1 {
		t.Fatalf("selected %d cards, want 1", len(got))
	}
	if got[0].ID != "fresh" {
		t.Errorf("selected %s, want fresh", got[0].ID)
	}
}

func TestSelectTodayCards_DueTodayInNonUTCZone(t *testing.T) {
	// Stored due dates come back as UTC midnights. A card due today must be
	// selected even when "today" is a local time east of UTC.
	plus8 := time.FixedZone("UTC+8", 8*60*60)
	localNow := time.Date(2025, 6, 10, 9, 0, 0, 0, plus8)

	dueToday := newCard("due-today", 2, 2.5, 3, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	tomorrow := newCard("tomorrow", 2, 2.5, 3, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))

	got := SelectTodayCards([]model.Card{dueToday, tomorrow}, localNow, DefaultPolicy())
	if len(got) != 1 {
		t.Fatalf("selected %d cards, want 1", len(got))
	}
	if got[0].ID != "due-today" {
		t.Errorf("selected %s, want due-today", got[0].ID)
	}
}

func TestSelectTodayCards_Empty(t *testing.T) {
	if got := SelectTodayCards(nil, today, DefaultPolicy()); len(got) != 0 {
		t.Errorf("selected %d cards from empty set, want 0", len(got))
	}
}

func TestSelectTodayCards_DueSupplementsNotDuplicated(t *testing.T) {
	// A repetition==0 card that is also due must not appear twice.
	c := newCard("both", 0, 2.5, 0, today.AddDate(0, 0, -1))
	got := SelectTodayCards([]model.Card{c}, today, DefaultPolicy())
	if len(got) != 1 {
		t.Errorf("selected %d cards, want 1", len(got))
	}
}

func TestRetentionRate(t *testing.T) {
	if got := RetentionRate(nil); got != 0 {
		t.Errorf("empty retention = %v, want 0", got)
	}
	logs := []model.ReviewLog{
		{Outcome: model.OutcomeRemembered},
		{Outcome: model.OutcomeForgot},
	}
	if got := RetentionRate(logs); got != 0.5 {
		t.Errorf("retention = %v, want 0.5", got)
	}
}
