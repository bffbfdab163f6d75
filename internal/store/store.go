// Package store provides the flashcard storage interface and SQLite
// implementation.
package store

import (
	"context"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// CreateSourceParams holds parameters for ingesting a source.
type CreateSourceParams struct {
	Type          model.SourceType
	RawContent    string
	ExtractedText string
	Title         string
	Domain        string
	Tags          []string
}

// CreateCardParams holds parameters for creating one card.
type CreateCardParams struct {
	SourceID    string
	Question    string
	Answer      string
	SourceQuote string
}

// ListCardsParams filters card listings.
type ListCardsParams struct {
	SourceID   string
	ActiveOnly bool
}

// ListReviewLogsParams filters review-log listings. Zero times mean no
// bound on that side.
type ListReviewLogsParams struct {
	CardID string
	Since  time.Time
	Until  time.Time
}

// CounterReportViews tracks how many times the weekly report was viewed.
const CounterReportViews = "report_views"

// Store defines the persistence interface for the review engine.
type Store interface {
	// Sources. DeleteSource cascades child-first: review logs, then cards,
	// then the source, inside one transaction.
	CreateSource(ctx context.Context, p CreateSourceParams) (*model.Source, error)
	GetSource(ctx context.Context, id string) (*model.Source, error)
	ListSources(ctx context.Context) ([]model.Source, error)
	DeleteSource(ctx context.Context, id string) error

	// Cards. UpdateCardReview persists only the SM-2 fields.
	// DeleteCard cascades to the card's review logs.
	CreateCards(ctx context.Context, params []CreateCardParams) ([]model.Card, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
	ListCards(ctx context.Context, p ListCardsParams) ([]model.Card, error)
	UpdateCardReview(ctx context.Context, c *model.Card) error
	SetCardActive(ctx context.Context, id string, active bool) error
	DeleteCard(ctx context.Context, id string) error
	CountCards(ctx context.Context) (int, error)

	// Review logs.
	AppendReviewLog(ctx context.Context, cardID string, outcome model.Outcome, at time.Time) (*model.ReviewLog, error)
	DeleteReviewLog(ctx context.Context, id string) error
	ListReviewLogs(ctx context.Context, p ListReviewLogsParams) ([]model.ReviewLog, error)

	// Daily statuses. Upsert is keyed on the calendar day.
	UpsertDailyStatus(ctx context.Context, st model.DailyStatus) (*model.DailyStatus, error)
	DeleteDailyStatus(ctx context.Context, day time.Time) error
	ListDailyStatuses(ctx context.Context) ([]model.DailyStatus, error)

	// Prompt history and engagement counters.
	AppendPromptLog(ctx context.Context, typ model.PromptType, action model.PromptAction, at time.Time) (*model.PromptLog, error)
	LastPromptTime(ctx context.Context, typ model.PromptType) (*time.Time, error)
	IncrCounter(ctx context.Context, name string) (int, error)
	GetCounter(ctx context.Context, name string) (int, error)

	// Close closes the store.
	Close() error
}
