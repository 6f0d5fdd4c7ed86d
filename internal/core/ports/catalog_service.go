package ports

import (
	"context"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// CreateServiceInput creates a catalog entry. An empty ID is derived from Name.
type CreateServiceInput struct {
	ID          string
	Name        string
	Description string
}

// UpdateServiceInput carries a partial service update.
type UpdateServiceInput struct {
	Name        *string
	Description *string
}

// CatalogService manages the service catalog.
type CatalogService interface {
	List(ctx context.Context) ([]*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	Create(ctx context.Context, actor domain.Actor, in CreateServiceInput) (*domain.Service, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
