package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

func TestAppender_StampIsStrictlyIncreasingWithFrozenClock(t *testing.T) {
	frozen := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	a := NewAppender(WithClock(func() time.Time { return frozen }))

	prev := a.Stamp()
	for i := 0; i < 100; i++ {
		next := a.Stamp()
		if !next.After(prev) {
			t.Fatalf("stamp %d not after previous: %v <= %v", i, next, prev)
		}
		prev = next
	}
}

func TestAppender_StampNeverGoesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), // clock stepped back
	}
	i := 0
	a := NewAppender(WithClock(func() time.Time {
		t := times[i%len(times)]
		i++
		return t
	}))

	first := a.Stamp()
	second := a.Stamp()
	if !second.After(first) {
		t.Fatalf("expected %v after %v", second, first)
	}
}

func TestAppender_MillisecondResolutionSurvivesTruncation(t *testing.T) {
	frozen := time.Date(2025, 1, 15, 10, 0, 0, 123456789, time.UTC)
	a := NewAppender(WithClock(func() time.Time { return frozen }), WithResolution(time.Millisecond))

	prev := a.Stamp()
	if prev.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("stamp not truncated to milliseconds: %v", prev)
	}
	for i := 0; i < 10; i++ {
		next := a.Stamp()
		if !next.Truncate(time.Millisecond).After(prev.Truncate(time.Millisecond)) {
			t.Fatalf("stamp %d collides at millisecond resolution: %v vs %v", i, next, prev)
		}
		prev = next
	}
}

func TestAppender_EntriesHaveUniqueIDs(t *testing.T) {
	a := NewAppender()
	seen := make(map[string]struct{})

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := a.Entry("x", "u1", "")
			mu.Lock()
			seen[e.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Fatalf("expected 50 unique ids, got %d", len(seen))
	}
}

func TestAppender_StatusChangedMentionsBothStatuses(t *testing.T) {
	n := 0
	a := NewAppender(WithIDGenerator(func() string { n++; return fmt.Sprintf("h-%d", n) }))

	e := a.StatusChanged("u3", domain.StatusInProgress, domain.StatusUrgent)

	if e.ID != "h-1" {
		t.Errorf("unexpected id %q", e.ID)
	}
	if e.ActorID != "u3" {
		t.Errorf("unexpected actor %q", e.ActorID)
	}
	if e.Action != "status changed to urgent" {
		t.Errorf("unexpected action %q", e.Action)
	}
	if e.Details != "status changed from in_progress to urgent" {
		t.Errorf("unexpected details %q", e.Details)
	}
}

func TestAppender_Created(t *testing.T) {
	a := NewAppender()
	e := a.Created("u1")
	if e.Action != domain.ActionCreated {
		t.Errorf("expected %q, got %q", domain.ActionCreated, e.Action)
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp must not be zero")
	}
}
