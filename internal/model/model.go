// Package model defines the core flashcard data types.
package model

import "time"

// Outcome is the user's response to a card review.
type Outcome string

const (
	OutcomeRemembered Outcome = "remembered"
	OutcomeForgot     Outcome = "forgot"
)

// SourceType identifies where a source's content came from.
type SourceType string

const (
	SourceText SourceType = "text"
	SourceURL  SourceType = "url"
)

// PromptType identifies a kind of engagement prompt.
type PromptType string

const (
	PromptSubscription PromptType = "subscription"
	PromptNotification PromptType = "notification"
)

// PromptAction is what the user did with a prompt.
type PromptAction string

const (
	ActionTapped        PromptAction = "tapped"
	ActionDismissed     PromptAction = "dismissed"
	ActionNotInterested PromptAction = "notInterested"
)

// Card is a single question/answer flashcard with its spaced-repetition state.
// The ease factor never drops below 1.3; only the scheduler mutates the
// repetition fields.
type Card struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id,omitempty"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	SourceQuote string    `json:"source_quote,omitempty"`
	Repetition  int       `json:"repetition"`
	EaseFactor  float64   `json:"ease_factor"`
	Interval    int       `json:"interval"`
	NextReview  time.Time `json:"next_review"`
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"active"`
}

// NewCard returns a card with the initial spaced-repetition state:
// never reviewed, default ease 2.5, due immediately.
func NewCard(question, answer, quote, sourceID string, now time.Time) Card {
	return Card{
		SourceID:    sourceID,
		Question:    question,
		Answer:      answer,
		SourceQuote: quote,
		Repetition:  0,
		EaseFactor:  2.5,
		Interval:    0,
		NextReview:  StartOfDay(now),
		CreatedAt:   now,
		Active:      true,
	}
}

// Source is a piece of ingested content that owns a set of cards.
// Deleting a source deletes its cards.
type Source struct {
	ID            string     `json:"id"`
	Type          SourceType `json:"type"`
	RawContent    string     `json:"raw_content"`
	ExtractedText string     `json:"extracted_text,omitempty"`
	Title         string     `json:"title,omitempty"`
	Domain        string     `json:"domain,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ReviewLog records a single review event for a card. Logs are immutable
// once written except for deletion on undo.
type ReviewLog struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id"`
	Outcome    Outcome   `json:"outcome"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// DailyStatus is the at-most-one-per-day energy/mood record. Saves are
// upserts keyed on the calendar day.
type DailyStatus struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	EnergyLevel     float64   `json:"energy_level"`
	Keyword         string    `json:"keyword,omitempty"`
	CardsReviewed   int       `json:"cards_reviewed"`
	CardsRemembered int       `json:"cards_remembered"`
	CreatedAt       time.Time `json:"created_at"`
}

// PromptLog is an append-only record of a prompt shown to the user,
// used to rate-limit future prompts.
type PromptLog struct {
	ID      string       `json:"id"`
	Type    PromptType   `json:"type"`
	ShownAt time.Time    `json:"shown_at"`
	Action  PromptAction `json:"action"`
}

// ValidOutcomes are the allowed review outcomes.
var ValidOutcomes = map[Outcome]bool{
	OutcomeRemembered: true,
	OutcomeForgot:     true,
}

// ValidPromptActions are the allowed prompt actions.
var ValidPromptActions = map[PromptAction]bool{
	ActionTapped:        true,
	ActionDismissed:     true,
	ActionNotInterested: true,
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative if b is before a). Both are normalized to UTC dates so DST
// shifts cannot skew the count.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
