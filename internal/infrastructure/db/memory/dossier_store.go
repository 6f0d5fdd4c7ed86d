// Package memory holds the process-local stores used when no database is
// configured. Each store serializes its mutations under a single lock.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arsn/dossier-tracking/internal/core/audit"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// DossierStore is the in-memory case record store. All mutations are
// serialized globally so the read-compare-append in Update is atomic.
type DossierStore struct {
	mu       sync.RWMutex
	dossiers map[string]*domain.Dossier
	appender *audit.Appender
	mode     ports.DeleteMode
	newID    func() string
}

// NewDossierStore returns an empty store. Timestamps of both the dossier and
// its history come from appender.
func NewDossierStore(appender *audit.Appender, mode ports.DeleteMode) *DossierStore {
	if mode == "" {
		mode = ports.DeleteTombstone
	}
	return &DossierStore{
		dossiers: make(map[string]*domain.Dossier),
		appender: appender,
		mode:     mode,
		newID:    uuid.NewString,
	}
}

var _ ports.DossierRepository = (*DossierStore)(nil)

func (s *DossierStore) Create(_ context.Context, d *domain.Dossier, actorID string) (*domain.Dossier, error) {
	if err := d.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("create dossier: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := d.Clone()
	stored.ID = s.newID()
	stored.CreatedBy = actorID
	stored.Deleted = false
	stored.DeletedAt = nil

	entry := s.appender.Created(actorID)
	stored.CreatedAt = entry.Timestamp
	stored.UpdatedAt = entry.Timestamp
	stored.History = []domain.HistoryEntry{entry}

	s.dossiers[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *DossierStore) Update(_ context.Context, id string, patch domain.DossierPatch, actorID string) (*domain.Dossier, *domain.HistoryEntry, error) {
	if err := patch.Validate(); err != nil {
		return nil, nil, fmt.Errorf("update dossier: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.dossiers[id]
	if !ok || current.Deleted {
		return nil, nil, domain.ErrDossierNotFound
	}

	// Work on a copy so a failing patch leaves the stored record untouched.
	next := current.Clone()
	from, changed, err := next.Apply(patch)
	if err != nil {
		return nil, nil, fmt.Errorf("update dossier: %w", err)
	}

	var appended *domain.HistoryEntry
	if changed {
		entry := s.appender.StatusChanged(actorID, from, next.Status)
		next.History = append(next.History, entry)
		next.UpdatedAt = entry.Timestamp
		appended = &entry
	} else {
		next.UpdatedAt = s.appender.Stamp()
	}

	s.dossiers[id] = next
	return next.Clone(), appended, nil
}

func (s *DossierStore) Delete(_ context.Context, id, actorID string) (*domain.Dossier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.dossiers[id]
	if !ok || current.Deleted {
		return nil, domain.ErrDossierNotFound
	}

	if s.mode == ports.DeleteHard {
		delete(s.dossiers, id)
		return current.Clone(), nil
	}

	next := current.Clone()
	entry := s.appender.Deleted(actorID)
	next.History = append(next.History, entry)
	next.Deleted = true
	next.DeletedAt = &entry.Timestamp
	next.UpdatedAt = entry.Timestamp
	s.dossiers[id] = next
	return next.Clone(), nil
}

func (s *DossierStore) FindByID(_ context.Context, id string) (*domain.Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dossiers[id]
	if !ok || d.Deleted {
		return nil, domain.ErrDossierNotFound
	}
	return d.Clone(), nil
}

func (s *DossierStore) List(_ context.Context, f ports.DossierFilter) ([]*domain.Dossier, int64, error) {
	s.mu.RLock()
	matched := make([]*domain.Dossier, 0, len(s.dossiers))
	for _, d := range s.dossiers {
		if matchesFilter(d, f) {
			matched = append(matched, d.Clone())
		}
	}
	s.mu.RUnlock()

	sortDossiers(matched, f.SortBy, f.Order)

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	// Compare page counts before multiplying so a huge page cannot overflow skip.
	if page-1 >= (len(matched)+f.Limit-1)/f.Limit {
		return []*domain.Dossier{}, total, nil
	}
	skip := (page - 1) * f.Limit
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (s *DossierStore) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for _, st := range domain.Statuses {
		counts[st] = 0
	}
	for _, d := range s.dossiers {
		if !d.Deleted {
			counts[d.Status]++
		}
	}
	return counts, nil
}

func matchesFilter(d *domain.Dossier, f ports.DossierFilter) bool {
	if d.Deleted {
		return false
	}
	if f.Status != "" && string(d.Status) != f.Status {
		return false
	}
	if f.Service != "" && !slices.Contains(d.Services, f.Service) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.Number), q) &&
			!strings.Contains(strings.ToLower(d.Subject), q) &&
			!strings.Contains(strings.ToLower(d.Sender), q) {
			return false
		}
	}
	return true
}

func sortDossiers(ds []*domain.Dossier, sortBy, order string) {
	desc := order != ports.OrderAsc
	compare := func(a, b *domain.Dossier) int {
		switch sortBy {
		case ports.SortByDate:
			return a.Date.Compare(b.Date)
		case ports.SortByNumber:
			return strings.Compare(a.Number, b.Number)
		case ports.SortByStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	slices.SortStableFunc(ds, func(a, b *domain.Dossier) int {
		c := compare(a, b)
		if c == 0 {
			// ties fall back to id so pages are stable
			c = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}
