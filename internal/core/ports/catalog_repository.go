package ports

import (
	"context"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// ServiceRepository persists the service catalog.
type ServiceRepository interface {
	// Create fails with domain.ErrServiceExists when the id is taken.
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	// List returns every service ordered by id.
	List(ctx context.Context) ([]*domain.Service, error)
}
