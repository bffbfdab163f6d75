// Package capability defines the external services the engine consumes:
// AI card/insight generation, URL content extraction, and notification
// scheduling. Implementations live outside the core; this package owns the
// contracts and the failure taxonomy.
package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/stats"
)

// ProviderConfig identifies the AI backend for a single call. It is passed
// explicitly rather than read from process-wide state.
type ProviderConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"-"`
}

// CardDraft is one generated question/answer/quote triple awaiting user
// acceptance.
type CardDraft struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourceQuote string `json:"source_quote"`
}

// Extracted is the readable content pulled from a URL.
type Extracted struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Domain string `json:"domain"`
}

// CardGenerator turns raw content into card drafts.
type CardGenerator interface {
	GenerateCards(ctx context.Context, cfg ProviderConfig, content string) ([]CardDraft, error)
}

// InsightGenerator turns a weekly report into short text insights.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, cfg ProviderConfig, weekly stats.Weekly) ([]string, error)
}

// Extractor fetches and strips a URL down to readable text.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extracted, error)
}

// Notifier schedules the daily review reminder. Fire-and-forget: errors
// are the implementation's problem.
type Notifier interface {
	ScheduleDaily(at time.Time, pendingCards int)
}

// TransportError is a timeout or connectivity failure talking to an
// external service. The caller may retry or fall back to manual entry.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError is a response that arrived but could not be parsed.
type MalformedError struct {
	Service string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s returned a malformed response: %v", e.Service, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedError.
func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}

// GenerateCards calls the generator, retrying exactly once when the
// response is malformed. Transport failures and second malformed responses
// surface to the caller classified.
func GenerateCards(ctx context.Context, g CardGenerator, cfg ProviderConfig, content string) ([]CardDraft, error) {
	drafts, err := g.GenerateCards(ctx, cfg, content)
	if err == nil {
		return drafts, nil
	}
	if !IsMalformed(err) {
		return nil, err
	}
	drafts, retryErr := g.GenerateCards(ctx, cfg, content)
	if retryErr != nil {
		return nil, retryErr
	}
	return drafts, nil
}
