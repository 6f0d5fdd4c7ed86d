// Package audit produces the immutable history entries attached to dossiers.
//
// Stores call the Appender from inside the same critical section that applies
// the mutation, so a change and its history entry are committed together.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// Appender hands out history entries with unique IDs and strictly
// increasing timestamps.
type Appender struct {
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
	step  time.Duration
	last  time.Time
}

// Option configures an Appender.
type Option func(*Appender)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *Appender) { a.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(a *Appender) { a.newID = fn }
}

// WithResolution truncates stamps to d and spaces consecutive stamps at least
// d apart. Stores that persist coarser times than nanoseconds (BSON dates keep
// milliseconds) need it to keep stored stamps strictly increasing.
func WithResolution(d time.Duration) Option {
	return func(a *Appender) {
		if d > 0 {
			a.step = d
		}
	}
}

// NewAppender returns an Appender using UTC wall-clock time and random uuids.
func NewAppender(opts ...Option) *Appender {
	a := &Appender{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		step:  time.Nanosecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stamp returns a timestamp strictly after every previously returned one.
func (a *Appender) Stamp() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stampLocked()
}

func (a *Appender) stampLocked() time.Time {
	t := a.now().Truncate(a.step)
	if !t.After(a.last) {
		t = a.last.Add(a.step)
	}
	a.last = t
	return t
}

// Entry builds a new history entry stamped now.
func (a *Appender) Entry(action, actorID, details string) domain.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return domain.HistoryEntry{
		ID:        a.newID(),
		Timestamp: a.stampLocked(),
		Action:    action,
		ActorID:   actorID,
		Details:   details,
	}
}

// Created returns the first entry of a new dossier.
func (a *Appender) Created(actorID string) domain.HistoryEntry {
	return a.Entry(domain.ActionCreated, actorID, "")
}

// StatusChanged returns the entry for a transition from -> to.
func (a *Appender) StatusChanged(actorID string, from, to domain.Status) domain.HistoryEntry {
	return a.Entry(domain.StatusChangeAction(to), actorID, domain.StatusChangeDetails(from, to))
}

// Deleted returns the entry recorded when a dossier is tombstoned.
func (a *Appender) Deleted(actorID string) domain.HistoryEntry {
	return a.Entry(domain.ActionDeleted, actorID, "")
}
