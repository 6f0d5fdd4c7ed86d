package ports

import (
	"context"
	"time"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// CreateDossierInput carries all data needed to create a dossier.
type CreateDossierInput struct {
	Number         string
	Date           time.Time
	Sender         string
	Subject        string
	Services       []string
	Status         string
	Observations   []string
	Note           string
	IdempotencyKey string
}

// UpdateDossierInput carries a partial update. Nil fields are left untouched.
type UpdateDossierInput struct {
	Number       *string
	Date         *time.Time
	Sender       *string
	Subject      *string
	Services     []string
	Status       *string
	Observations []string
	Note         *string
}

// DossierResult is returned by Create.
type DossierResult struct {
	Dossier *domain.Dossier
	// AlreadyExisted is true when the Idempotency-Key matched an existing dossier.
	AlreadyExisted bool
}

// ServiceRef is a resolved service reference. Missing is set when the
// service no longer exists; Name then holds the raw id.
type ServiceRef struct {
	ID      string
	Name    string
	Missing bool
}

// DossierDetail is the full dossier view returned by Get.
type DossierDetail struct {
	Dossier  *domain.Dossier
	Services []ServiceRef
}

// ListDossiersInput carries all parameters for the list endpoint.
type ListDossiersInput struct {
	Status  string
	Service string
	Search  string
	SortBy  string
	Order   string
	Page    int
	Limit   int
}

// ListDossiersResult is returned by List.
type ListDossiersResult struct {
	Items      []*domain.Dossier
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DashboardStats summarises the dossier store.
type DashboardStats struct {
	Total    int64
	ByStatus map[domain.Status]int64
	Urgent   []*domain.Dossier
	Recent   []*domain.Dossier
}

// DossierService defines use-case operations for dossiers. Every call takes
// the acting user explicitly.
type DossierService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateDossierInput) (*DossierResult, error)
	// Update returns (nil, nil) when id is unknown and not-found is lenient.
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateDossierInput) (*domain.Dossier, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Get(ctx context.Context, actor domain.Actor, id string) (*DossierDetail, error)
	List(ctx context.Context, actor domain.Actor, in ListDossiersInput) (*ListDossiersResult, error)
	Dashboard(ctx context.Context, actor domain.Actor) (*DashboardStats, error)
	// ServiceByID looks a service up for display; a missing service is (nil, nil).
	ServiceByID(ctx context.Context, id string) (*domain.Service, error)
}
