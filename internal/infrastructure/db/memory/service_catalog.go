package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// ServiceCatalog is the in-memory service catalog.
type ServiceCatalog struct {
	mu       sync.RWMutex
	services map[string]domain.Service
}

func NewServiceCatalog(seed ...domain.Service) *ServiceCatalog {
	c := &ServiceCatalog{services: make(map[string]domain.Service, len(seed))}
	for _, s := range seed {
		c.services[s.ID] = s
	}
	return c
}

var _ ports.ServiceRepository = (*ServiceCatalog)(nil)

func (c *ServiceCatalog) Create(_ context.Context, s *domain.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[s.ID]; exists {
		return domain.ErrServiceExists
	}
	c.services[s.ID] = *s
	return nil
}

func (c *ServiceCatalog) Update(_ context.Context, s *domain.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[s.ID]; !exists {
		return domain.ErrServiceNotFound
	}
	c.services[s.ID] = *s
	return nil
}

func (c *ServiceCatalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[id]; !exists {
		return domain.ErrServiceNotFound
	}
	delete(c.services, id)
	return nil
}

func (c *ServiceCatalog) FindByID(_ context.Context, id string) (*domain.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &s, nil
}

func (c *ServiceCatalog) List(_ context.Context) ([]*domain.Service, error) {
	c.mu.RLock()
	out := make([]*domain.Service, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, &s)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b *domain.Service) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}
