package session

import (
	"sync"
	"time"
)

// Undo window slots. Scheduling a slot cancels any timer already pending
// for it, so a stale timer can never clear state it no longer owns.
type slot string

const (
	slotCardUndo   slot = "card-undo"
	slotStatusUndo slot = "status-undo"
)

type timerSet struct {
	mu     sync.Mutex
	timers map[slot]*time.Timer
}

func newTimerSet() *timerSet {
	return &timerSet{timers: make(map[slot]*time.Timer)}
}

func (ts *timerSet) schedule(s slot, d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[s]; ok {
		t.Stop()
	}
	ts.timers[s] = time.AfterFunc(d, fn)
}

func (ts *timerSet) cancel(s slot) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[s]; ok {
		t.Stop()
		delete(ts.timers, s)
	}
}

func (ts *timerSet) cancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for s, t := range ts.timers {
		t.Stop()
		delete(ts.timers, s)
	}
}
