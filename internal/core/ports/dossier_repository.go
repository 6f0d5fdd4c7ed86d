package ports

import (
	"context"
	"fmt"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// Sort keys accepted by DossierFilter.SortBy.
const (
	SortByDate      = "date"
	SortByNumber    = "number"
	SortByStatus    = "status"
	SortByCreatedAt = "created_at"
)

// Sort orders accepted by DossierFilter.Order.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// DossierFilter carries all query parameters for listing dossiers.
// Deleted dossiers are never listed.
type DossierFilter struct {
	Status  string // optional: exact status
	Service string // optional: dossiers imputed to this service id
	Search  string // optional: case-insensitive substring of number, subject or sender
	SortBy  string // date|number|status|created_at (default created_at)
	Order   string // asc|desc (default desc)
	Page    int    // 1-based
	Limit   int    // <= 0 returns every match
}

// DeleteMode selects what Delete does to a stored dossier.
type DeleteMode string

const (
	// DeleteTombstone flags the dossier deleted and keeps its history.
	DeleteTombstone DeleteMode = "tombstone"
	// DeleteHard removes the dossier and its history.
	DeleteHard DeleteMode = "hard"
)

// ParseDeleteMode validates a configured delete mode.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case DeleteTombstone, DeleteHard:
		return DeleteMode(s), nil
	case "":
		return DeleteTombstone, nil
	}
	return "", fmt.Errorf("unknown delete mode %q", s)
}

// DossierRepository is the case record store. Every mutation and the history
// entry it produces are committed atomically.
type DossierRepository interface {
	// Create stores d with a fresh id, timestamps and a creation history entry.
	// It rejects an empty service list or an unknown status.
	Create(ctx context.Context, d *domain.Dossier, actorID string) (*domain.Dossier, error)
	// Update merges patch into the dossier. The returned entry is non-nil only
	// when the status changed.
	Update(ctx context.Context, id string, patch domain.DossierPatch, actorID string) (*domain.Dossier, *domain.HistoryEntry, error)
	// Delete removes or tombstones the dossier and returns its last state.
	Delete(ctx context.Context, id, actorID string) (*domain.Dossier, error)
	FindByID(ctx context.Context, id string) (*domain.Dossier, error)
	// List returns a page of dossiers matching filter and the total count.
	List(ctx context.Context, filter DossierFilter) ([]*domain.Dossier, int64, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}
