// Package session orchestrates one review sitting: ordered card traversal,
// flip/reveal, outcome recording, and one-level undo with 5-second windows.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/recallbox/recallbox/internal/model"
	"github.com/recallbox/recallbox/internal/scheduler"
)

// State is the session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	// StateEmpty is the terminal state when nothing was due: no cards were
	// reviewed, so no status prompt is raised.
	StateEmpty
	StatePresenting
	StateAwaitingStatus
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEmpty:
		return "empty"
	case StatePresenting:
		return "presenting"
	case StateAwaitingStatus:
		return "awaiting-status"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Store is the slice of persistence the session needs. All writes are
// best-effort: a failure leaves in-memory state unchanged and is ignored.
type Store interface {
	UpdateCardReview(ctx context.Context, c *model.Card) error
	AppendReviewLog(ctx context.Context, cardID string, outcome model.Outcome, at time.Time) (*model.ReviewLog, error)
	DeleteReviewLog(ctx context.Context, id string) error
	UpsertDailyStatus(ctx context.Context, st model.DailyStatus) (*model.DailyStatus, error)
	DeleteDailyStatus(ctx context.Context, day time.Time) error
}

// View is an immutable snapshot of session state handed to the observer.
type View struct {
	State         State
	Index         int
	Total         int
	Flipped       bool
	Reviewed      int
	Remembered    int
	CanUndoCard   bool
	CanUndoStatus bool
}

// Options tune a session. Zero values get sensible defaults.
type Options struct {
	UndoWindow time.Duration    // default 5s
	Now        func() time.Time // default time.Now
	OnChange   func(View)       // state-transition observer, may be nil
}

// snapshot preserves a card's SM-2 fields for undo.
type snapshot struct {
	index      int
	repetition int
	ease       float64
	interval   int
	nextReview time.Time
}

// Session drives one sitting over a pre-selected, ordered card set.
// Methods are not safe for concurrent use except against the internal
// undo-window timers, which the session synchronizes itself.
type Session struct {
	store  Store
	cards  []model.Card
	opts   Options
	timers *timerSet

	state      State
	index      int
	flipped    bool
	reviewed   int
	remembered int

	// one-level card undo. The generation counters fence off stale timer
	// callbacks: an expiry only clears the window it was scheduled for.
	lastSnap    *snapshot
	lastLog     *model.ReviewLog
	lastOutcome model.Outcome
	cardUndoGen int

	statusUndoOpen bool
	statusUndoGen  int
	statusDay      time.Time

	// guards the fields above against timer-expiry callbacks
	mu sync.Mutex
}

// New starts a session over the given cards (presentation order as
// returned by scheduler.SelectTodayCards). An empty set yields StateEmpty.
func New(st Store, cards []model.Card, opts Options) *Session {
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		store:  st,
		cards:  cards,
		opts:   opts,
		timers: newTimerSet(),
		state:  StatePresenting,
	}
	if len(cards) == 0 {
		s.state = StateEmpty
	}
	s.notify()
	return s
}

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// View returns the current state snapshot.
func (s *Session) View() View {
	s.lock()
	defer s.unlock()
	return s.view()
}

func (s *Session) view() View {
	return View{
		State:         s.state,
		Index:         s.index,
		Total:         len(s.cards),
		Flipped:       s.flipped,
		Reviewed:      s.reviewed,
		Remembered:    s.remembered,
		CanUndoCard:   s.lastSnap != nil,
		CanUndoStatus: s.statusUndoOpen,
	}
}

func (s *Session) notify() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.View())
	}
}

// Current returns the card being presented, or nil outside StatePresenting.
func (s *Session) Current() *model.Card {
	s.lock()
	defer s.unlock()
	if s.state != StatePresenting || s.index >= len(s.cards) {
		return nil
	}
	c := s.cards[s.index]
	return &c
}

// Reveal flips the current card. Revealing twice is a no-op.
func (s *Session) Reveal() {
	s.lock()
	if s.state != StatePresenting || s.flipped {
		s.unlock()
		return
	}
	s.flipped = true
	s.unlock()
	s.notify()
}

// RecordOutcome applies the review outcome to the current card: SM-2
// mutation, review log, counters, and either advance with a card-undo
// window or the end-of-session status prompt. The card must be revealed
// first.
func (s *Session) RecordOutcome(ctx context.Context, outcome model.Outcome) {
	s.lock()
	if s.state != StatePresenting || !s.flipped {
		s.unlock()
		return
	}

	// A new review finalizes any still-open undo window.
	s.timers.cancel(slotCardUndo)
	s.clearCardUndo()

	card := &s.cards[s.index]
	snap := &snapshot{
		index:      s.index,
		repetition: card.Repetition,
		ease:       card.EaseFactor,
		interval:   card.Interval,
		nextReview: card.NextReview,
	}

	now := s.opts.Now()
	scheduler.ProcessReview(card, outcome, now)
	s.store.UpdateCardReview(ctx, card)

	log, err := s.store.AppendReviewLog(ctx, card.ID, outcome, now)
	if err != nil {
		log = nil
	}

	s.reviewed++
	if outcome == model.OutcomeRemembered {
		s.remembered++
	}

	if s.index+1 < len(s.cards) {
		s.lastSnap = snap
		s.lastLog = log
		s.lastOutcome = outcome
		s.index++
		s.flipped = false
		s.cardUndoGen++
		gen := s.cardUndoGen
		s.timers.schedule(slotCardUndo, s.opts.UndoWindow, func() { s.expireCardUndo(gen) })
	} else {
		s.state = StateAwaitingStatus
	}
	s.unlock()
	s.notify()
}

// UndoLastCard reverts the most recent review while its window is open:
// the SM-2 snapshot is restored, the log removed, counters decremented,
// and the session returns to the undone card unflipped. Reports whether
// an undo happened.
func (s *Session) UndoLastCard(ctx context.Context) bool {
	s.lock()
	if s.lastSnap == nil {
		s.unlock()
		return false
	}
	s.timers.cancel(slotCardUndo)

	snap := s.lastSnap
	card := &s.cards[snap.index]
	card.Repetition = snap.repetition
	card.EaseFactor = snap.ease
	card.Interval = snap.interval
	card.NextReview = snap.nextReview
	s.store.UpdateCardReview(ctx, card)

	if s.lastLog != nil {
		s.store.DeleteReviewLog(ctx, s.lastLog.ID)
	}

	s.reviewed--
	if s.lastOutcome == model.OutcomeRemembered {
		s.remembered--
	}

	s.index = snap.index
	s.flipped = false
	s.state = StatePresenting
	s.cardUndoGen++
	s.clearCardUndo()
	s.unlock()
	s.notify()
	return true
}

func (s *Session) expireCardUndo(gen int) {
	s.lock()
	if gen != s.cardUndoGen {
		s.unlock()
		return
	}
	s.clearCardUndo()
	s.unlock()
	s.notify()
}

func (s *Session) clearCardUndo() {
	s.lastSnap = nil
	s.lastLog = nil
	s.lastOutcome = ""
}

// SaveStatus upserts today's energy/mood record with the session counters
// and opens the status-undo window. A persistence failure silently leaves
// the session awaiting status.
func (s *Session) SaveStatus(ctx context.Context, energy float64, keyword string) {
	s.lock()
	if s.state != StateAwaitingStatus {
		s.unlock()
		return
	}

	day := model.StartOfDay(s.opts.Now())
	_, err := s.store.UpsertDailyStatus(ctx, model.DailyStatus{
		Date:            day,
		EnergyLevel:     energy,
		Keyword:         keyword,
		CardsReviewed:   s.reviewed,
		CardsRemembered: s.remembered,
	})
	if err != nil {
		s.unlock()
		return
	}

	s.statusDay = day
	s.statusUndoOpen = true
	s.state = StateCompleted
	s.statusUndoGen++
	gen := s.statusUndoGen
	s.timers.schedule(slotStatusUndo, s.opts.UndoWindow, func() { s.expireStatusUndo(gen) })
	s.unlock()
	s.notify()
}

// UndoStatus deletes today's status record while the window is open and
// returns to the status prompt. Reports whether an undo happened.
func (s *Session) UndoStatus(ctx context.Context) bool {
	s.lock()
	if !s.statusUndoOpen {
		s.unlock()
		return false
	}
	s.timers.cancel(slotStatusUndo)

	if err := s.store.DeleteDailyStatus(ctx, s.statusDay); err != nil {
		s.unlock()
		return false
	}
	s.statusUndoOpen = false
	s.statusUndoGen++
	s.state = StateAwaitingStatus
	s.unlock()
	s.notify()
	return true
}

func (s *Session) expireStatusUndo(gen int) {
	s.lock()
	if gen != s.statusUndoGen {
		s.unlock()
		return
	}
	s.statusUndoOpen = false
	s.unlock()
	s.notify()
}

// SkipStatus closes the status prompt without recording anything.
func (s *Session) SkipStatus() {
	s.lock()
	if s.state != StateAwaitingStatus {
		s.unlock()
		return
	}
	s.state = StateCompleted
	s.unlock()
	s.notify()
}

// Progress returns reviewed count over total.
func (s *Session) Progress() (reviewed, total int) {
	s.lock()
	defer s.unlock()
	return s.reviewed, len(s.cards)
}

// RetentionRate is remembered over reviewed for this sitting, 0 before
// any review.
func (s *Session) RetentionRate() float64 {
	s.lock()
	defer s.unlock()
	if s.reviewed == 0 {
		return 0
	}
	return float64(s.remembered) / float64(s.reviewed)
}

// Close cancels any pending undo timers.
func (s *Session) Close() {
	s.timers.cancelAll()
}
