package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// maxCodeAttempts bounds the search for a free generated service id.
const maxCodeAttempts = 100

type CatalogService struct {
	repo   ports.ServiceRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCatalogService(repo ports.ServiceRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger, now: time.Now}
}

var _ ports.CatalogService = (*CatalogService)(nil)

func (s *CatalogService) List(ctx context.Context) ([]*domain.Service, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a service. Without an explicit id, one is derived from the
// name and a two-digit suffix taken from the clock; taken ids move on to the
// next suffix.
func (s *CatalogService) Create(ctx context.Context, actor domain.Actor, in ports.CreateServiceInput) (*domain.Service, error) {
	if err := authorize(s.logger, actor, domain.OpManageServices); err != nil {
		return nil, err
	}

	svc := &domain.Service{
		ID:          strings.ToUpper(strings.TrimSpace(in.ID)),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if svc.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidService)
	}

	if svc.ID != "" {
		if err := s.repo.Create(ctx, svc); err != nil {
			return nil, err
		}
		s.logger.Info().Str("service_id", svc.ID).Str("actor_id", actor.ID).Msg("service created")
		return svc, nil
	}

	suffix := int(s.now().UnixMilli() % 100)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		svc.ID = domain.ServiceCode(svc.Name, suffix+attempt)
		err := s.repo.Create(ctx, svc)
		if err == nil {
			s.logger.Info().Str("service_id", svc.ID).Str("actor_id", actor.ID).Msg("service created")
			return svc, nil
		}
		if !errors.Is(err, domain.ErrServiceExists) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no free id for service %q: %w", svc.Name, domain.ErrServiceExists)
}

func (s *CatalogService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateServiceInput) (*domain.Service, error) {
	if err := authorize(s.logger, actor, domain.OpManageServices); err != nil {
		return nil, err
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidService)
		}
		svc.Name = name
	}
	if in.Description != nil {
		svc.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.Info().Str("service_id", id).Str("actor_id", actor.ID).Msg("service updated")
	return svc, nil
}

// Delete removes a service. Dossiers still referencing it keep the raw id.
func (s *CatalogService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(s.logger, actor, domain.OpManageServices); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("service_id", id).Str("actor_id", actor.ID).Msg("service deleted")
	return nil
}

// SeedCatalog installs services on an empty catalog.
func SeedCatalog(ctx context.Context, repo ports.ServiceRepository, services []domain.Service) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range services {
		if err := repo.Create(ctx, &services[i]); err != nil && !errors.Is(err, domain.ErrServiceExists) {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	return nil
}
