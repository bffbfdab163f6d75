package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/capability"
	"github.com/recallbox/recallbox/internal/stats"
)

var errNotConfigured = errors.New("no provider wired into this build")

// unconfigured satisfies the AI and extraction capabilities when no real
// transport is compiled in. Every call fails with a transport-class error
// so callers fall back to manual entry.
type unconfigured struct{}

func (unconfigured) GenerateCards(ctx context.Context, cfg capability.ProviderConfig, content string) ([]capability.CardDraft, error) {
	return nil, &capability.TransportError{Service: serviceName(cfg), Err: errNotConfigured}
}

func (unconfigured) GenerateInsights(ctx context.Context, cfg capability.ProviderConfig, weekly stats.Weekly) ([]string, error) {
	return nil, &capability.TransportError{Service: serviceName(cfg), Err: errNotConfigured}
}

func (unconfigured) Extract(ctx context.Context, url string) (*capability.Extracted, error) {
	return nil, &capability.TransportError{Service: "extractor", Err: errNotConfigured}
}

func serviceName(cfg capability.ProviderConfig) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	return "ai provider"
}

// stdoutNotifier stands in for the platform notification scheduler.
type stdoutNotifier struct{}

func (stdoutNotifier) ScheduleDaily(at time.Time, pendingCards int) {
	fmt.Printf("daily reminder scheduled for %s (%d cards pending)\n",
		at.Format("15:04"), pendingCards)
}
