// Package scheduler implements the SM-2 spaced-repetition algorithm and
// the daily card-selection policy.
package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// MinEase is the floor for a card's ease factor.
const MinEase = 1.3

// Policy controls how many cards a daily session contains.
type Policy struct {
	MaxDaily int // hard cap on cards per session
	MinDaily int // supplement with new cards up to this many
}

// DefaultPolicy returns the standard 8-max / 3-min selection policy.
func DefaultPolicy() Policy {
	return Policy{MaxDaily: 8, MinDaily: 3}
}

// ProcessReview mutates the card's SM-2 state in place for the given outcome.
//
// remembered: interval 1 on the first success, 6 on the second, then
// round(interval * ease); repetition increments and ease rises by 0.1.
// forgot: repetition resets to 0, interval to 1, ease drops by 0.2.
// Ease is clamped to MinEase on both branches, and the next review date is
// the start of today plus the new interval.
func ProcessReview(card *model.Card, outcome model.Outcome, today time.Time) {
	switch outcome {
	case model.OutcomeRemembered:
		switch card.Repetition {
		case 0:
			card.Interval = 1
		case 1:
			card.Interval = 6
		default:
			card.Interval = int(math.Round(float64(card.Interval) * card.EaseFactor))
		}
		card.Repetition++
		card.EaseFactor = math.Max(MinEase, card.EaseFactor+0.1)

	case model.OutcomeForgot:
		card.Repetition = 0
		card.Interval = 1
		card.EaseFactor = math.Max(MinEase, card.EaseFactor-0.2)
	}

	card.NextReview = model.StartOfDay(today).AddDate(0, 0, card.Interval)
}

// SelectTodayCards returns the ordered set of cards to review today.
//
// Due cards (active, next review on or before today) come first, most
// overdue first, lower ease breaking ties. At most p.MaxDaily are taken.
// If fewer than p.MinDaily result, never-reviewed active cards top the
// session up, newest first. The returned order is the presentation order.
func SelectTodayCards(all []model.Card, today time.Time, p Policy) []model.Card {
	day := model.StartOfDay(today)

	var due []model.Card
	for _, c := range all {
		// Calendar-day comparison: stored due dates are UTC midnights while
		// today is local, so instant comparison would shift the due day.
		if c.Active && model.DaysBetween(c.NextReview, day) >= 0 {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		di := model.DaysBetween(due[i].NextReview, day)
		dj := model.DaysBetween(due[j].NextReview, day)
		if di != dj {
			return di > dj
		}
		return due[i].EaseFactor < due[j].EaseFactor
	})
	if len(due) > p.MaxDaily {
		due = due[:p.MaxDaily]
	}
	selected := due

	if len(selected) < p.MinDaily {
		picked := make(map[string]bool, len(selected))
		for _, c := range selected {
			picked[c.ID] = true
		}
		var fresh []model.Card
		for _, c := range all {
			if c.Active && c.Repetition == 0 && !picked[c.ID] {
				fresh = append(fresh, c)
			}
		}
		sort.SliceStable(fresh, func(i, j int) bool {
			return fresh[i].CreatedAt.After(fresh[j].CreatedAt)
		})
		needed := p.MinDaily - len(selected)
		if needed > len(fresh) {
			needed = len(fresh)
		}
		selected = append(selected, fresh[:needed]...)
	}

	return selected
}

// RetentionRate returns the fraction of logs marked remembered,
// 0 for an empty slice.
func RetentionRate(logs []model.ReviewLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	remembered := 0
	for _, l := range logs {
		if l.Outcome == model.OutcomeRemembered {
			remembered++
		}
	}
	return float64(remembered) / float64(len(logs))
}
