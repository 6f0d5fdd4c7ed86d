package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
	"github.com/arsn/dossier-tracking/internal/infrastructure/db/memory"
)

func newCatalogService(clock time.Time) (*CatalogService, *memory.ServiceCatalog) {
	repo := memory.NewServiceCatalog(domain.DefaultServices()...)
	svc := NewCatalogService(repo, discardLogger)
	svc.now = func() time.Time { return clock }
	return svc, repo
}

func TestCatalogService_Create_GeneratesCode(t *testing.T) {
	svc, _ := newCatalogService(time.UnixMilli(1_700_000_000_042))

	s, err := svc.Create(context.Background(), admin, ports.CreateServiceInput{Name: "Gestion Déchets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "GEDÉ-42" {
		t.Errorf("unexpected id %q", s.ID)
	}
}

func TestCatalogService_Create_CollisionMovesToNextSuffix(t *testing.T) {
	svc, repo := newCatalogService(time.UnixMilli(1_700_000_000_001))
	if err := repo.Create(context.Background(), &domain.Service{ID: "INRE-01", Name: "taken"}); err != nil {
		t.Fatal(err)
	}

	s, err := svc.Create(context.Background(), admin, ports.CreateServiceInput{Name: "Inspection Régionale"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "INRE-02" {
		t.Errorf("expected INRE-02, got %q", s.ID)
	}
}

func TestCatalogService_Create_ExplicitIDConflict(t *testing.T) {
	svc, _ := newCatalogService(time.Now())
	_, err := svc.Create(context.Background(), admin, ports.CreateServiceInput{ID: "ct-01", Name: "Doublon"})
	if !errors.Is(err, domain.ErrServiceExists) {
		t.Fatalf("expected ErrServiceExists, got %v", err)
	}
}

func TestCatalogService_ManageRequiresAdmin(t *testing.T) {
	svc, _ := newCatalogService(time.Now())
	name := "x"

	if _, err := svc.Create(context.Background(), responsable, ports.CreateServiceInput{Name: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), chef, "CT-01", ports.UpdateServiceInput{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), agent, "CT-01"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete: expected ErrForbidden, got %v", err)
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	svc, _ := newCatalogService(time.Now())
	name := "Contrôle"

	s, err := svc.Update(context.Background(), admin, "CT-01", ports.UpdateServiceInput{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "Contrôle" || s.Description == "" {
		t.Errorf("unexpected service %+v", s)
	}

	if err := svc.Delete(context.Background(), admin, "CT-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), "CT-01"); !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestSeedCatalog_OnlyWhenEmpty(t *testing.T) {
	repo := memory.NewServiceCatalog(domain.Service{ID: "XX-01", Name: "Existing"})
	if err := SeedCatalog(context.Background(), repo, domain.DefaultServices()); err != nil {
		t.Fatal(err)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("seed must not touch a populated catalog, got %d services", len(list))
	}

	empty := memory.NewServiceCatalog()
	if err := SeedCatalog(context.Background(), empty, domain.DefaultServices()); err != nil {
		t.Fatal(err)
	}
	list, _ = empty.List(context.Background())
	if len(list) != 4 {
		t.Fatalf("expected 4 seeded services, got %d", len(list))
	}
}
