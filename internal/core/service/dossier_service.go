package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/pkg/metrics"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	recentDossiers  = 5
)

// DossierOption configures a DossierService.
type DossierOption func(*DossierService)

// WithStrictNotFound makes Update and Delete report domain.ErrDossierNotFound
// for unknown ids instead of silently doing nothing.
func WithStrictNotFound(strict bool) DossierOption {
	return func(s *DossierService) { s.strict = strict }
}

// WithDeleteMode labels deletions with the store's delete mode.
func WithDeleteMode(mode ports.DeleteMode) DossierOption {
	return func(s *DossierService) { s.deleteMode = mode }
}

// WithIdempotency enables Idempotency-Key handling on Create.
func WithIdempotency(store ports.IdempotencyStore) DossierOption {
	return func(s *DossierService) { s.idem = store }
}

// WithEventPublisher publishes a DossierEvent after every committed mutation.
func WithEventPublisher(p ports.EventPublisher) DossierOption {
	return func(s *DossierService) { s.events = p }
}

type DossierService struct {
	repo       ports.DossierRepository
	catalog    ports.ServiceRepository
	idem       ports.IdempotencyStore
	events     ports.EventPublisher
	strict     bool
	deleteMode ports.DeleteMode
	logger     zerolog.Logger
}

func NewDossierService(repo ports.DossierRepository, catalog ports.ServiceRepository, logger zerolog.Logger, opts ...DossierOption) *DossierService {
	s := &DossierService{
		repo:       repo,
		catalog:    catalog,
		deleteMode: ports.DeleteTombstone,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.DossierService = (*DossierService)(nil)

// Create validates the input and stores a new dossier. If an idempotency key
// is provided and already seen, the previously created dossier is returned
// without side effects.
func (s *DossierService) Create(ctx context.Context, actor domain.Actor, in ports.CreateDossierInput) (*ports.DossierResult, error) {
	if err := authorize(s.logger, actor, domain.OpCreateDossier); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if existing := s.replay(ctx, in.IdempotencyKey); existing != nil {
			return &ports.DossierResult{Dossier: existing, AlreadyExisted: true}, nil
		}
	}

	d, err := s.newDossier(ctx, in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, d, actor.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create dossier")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.DossiersCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	s.publish(domain.EventCreated, created, actor.ID, &created.History[0])
	s.logger.Info().Str("dossier_id", created.ID).Str("number", created.Number).Str("actor_id", actor.ID).Msg("dossier created")

	return &ports.DossierResult{Dossier: created}, nil
}

func (s *DossierService) replay(ctx context.Context, key string) *domain.Dossier {
	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// the dossier behind the key is gone; treat the key as fresh
		return nil
	}
	metrics.IdempotentReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("dossier_id", id).Msg("idempotent replay")
	return existing
}

// Update applies a partial update. Unknown ids are a no-op returning
// (nil, nil) unless not-found handling is strict.
func (s *DossierService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateDossierInput) (*domain.Dossier, error) {
	if err := authorize(s.logger, actor, domain.OpEditDossier); err != nil {
		return nil, err
	}

	patch, err := s.newPatch(ctx, in)
	if err != nil {
		return nil, err
	}

	updated, entry, err := s.repo.Update(ctx, id, patch, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDossierNotFound) {
			return nil, s.notFound("update", id)
		}
		return nil, err
	}

	if entry != nil {
		metrics.StatusTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
		s.publish(domain.EventStatusChanged, updated, actor.ID, entry)
		s.logger.Info().Str("dossier_id", id).Str("status", string(updated.Status)).Str("actor_id", actor.ID).Msg("dossier status changed")
	} else {
		s.publish(domain.EventUpdated, updated, actor.ID, nil)
		s.logger.Debug().Str("dossier_id", id).Str("actor_id", actor.ID).Msg("dossier updated")
	}
	return updated, nil
}

// Delete removes the dossier. Unknown ids are a no-op unless not-found
// handling is strict.
func (s *DossierService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(s.logger, actor, domain.OpDeleteDossier); err != nil {
		return err
	}

	last, err := s.repo.Delete(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDossierNotFound) {
			return s.notFound("delete", id)
		}
		return err
	}

	var entry *domain.HistoryEntry
	if last.Deleted && len(last.History) > 0 {
		entry = &last.History[len(last.History)-1]
	}
	metrics.DossiersDeletedTotal.WithLabelValues(string(s.deleteMode)).Inc()
	s.publish(domain.EventDeleted, last, actor.ID, entry)
	s.logger.Info().Str("dossier_id", id).Str("mode", string(s.deleteMode)).Str("actor_id", actor.ID).Msg("dossier deleted")
	return nil
}

func (s *DossierService) notFound(op, id string) error {
	if s.strict {
		return domain.ErrDossierNotFound
	}
	metrics.NotFoundIgnoredTotal.WithLabelValues(op).Inc()
	s.logger.Debug().Str("dossier_id", id).Str("operation", op).Msg("unknown dossier ignored")
	return nil
}

// Get returns a dossier with its service references resolved for display.
func (s *DossierService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.DossierDetail, error) {
	if err := authorize(s.logger, actor, domain.OpViewDossiers); err != nil {
		return nil, err
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs := make([]ports.ServiceRef, 0, len(d.Services))
	for _, sid := range d.Services {
		svc, err := s.ServiceByID(ctx, sid)
		if err != nil {
			s.logger.Warn().Err(err).Str("service_id", sid).Msg("service lookup failed")
		}
		refs = append(refs, ports.ServiceRef{
			ID:      sid,
			Name:    domain.ServiceLabel(sid, svc),
			Missing: svc == nil,
		})
	}
	return &ports.DossierDetail{Dossier: d, Services: refs}, nil
}

// List returns a page of dossiers.
func (s *DossierService) List(ctx context.Context, actor domain.Actor, in ports.ListDossiersInput) (*ports.ListDossiersResult, error) {
	if err := authorize(s.logger, actor, domain.OpViewDossiers); err != nil {
		return nil, err
	}
	if in.Status != "" && !domain.Status(in.Status).Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}

	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.DossierFilter{
		Status:  in.Status,
		Service: in.Service,
		Search:  strings.TrimSpace(in.Search),
		SortBy:  normalizeSort(in.SortBy),
		Order:   normalizeOrder(in.Order),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListDossiersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Dashboard returns per-status counts, every urgent dossier and the most
// recently created ones.
func (s *DossierService) Dashboard(ctx context.Context, actor domain.Actor) (*ports.DashboardStats, error) {
	if err := authorize(s.logger, actor, domain.OpViewDossiers); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	var total int64
	for _, n := range counts {
		total += n
	}

	urgent, _, err := s.repo.List(ctx, ports.DossierFilter{
		Status: string(domain.StatusUrgent),
		SortBy: ports.SortByCreatedAt,
		Order:  ports.OrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard urgent: %w", err)
	}

	recent, _, err := s.repo.List(ctx, ports.DossierFilter{
		SortBy: ports.SortByCreatedAt,
		Order:  ports.OrderDesc,
		Page:   1,
		Limit:  recentDossiers,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard recent: %w", err)
	}

	return &ports.DashboardStats{Total: total, ByStatus: counts, Urgent: urgent, Recent: recent}, nil
}

// ServiceByID returns the catalog entry for id, or (nil, nil) when it no
// longer exists.
func (s *DossierService) ServiceByID(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.catalog.FindByID(ctx, id)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return nil, nil
	}
	return svc, err
}

func (s *DossierService) publish(t domain.EventType, d *domain.Dossier, actorID string, entry *domain.HistoryEntry) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.DossierEvent{
		Type:       t,
		DossierID:  d.ID,
		Number:     d.Number,
		Status:     d.Status,
		ActorID:    actorID,
		Entry:      entry,
		OccurredAt: d.UpdatedAt,
	})
}

// ---------------------------------------------------------------------------
// Input validation
// ---------------------------------------------------------------------------

func (s *DossierService) newDossier(ctx context.Context, in ports.CreateDossierInput) (*domain.Dossier, error) {
	d := &domain.Dossier{
		Number:  strings.TrimSpace(in.Number),
		Date:    in.Date,
		Sender:  strings.TrimSpace(in.Sender),
		Subject: strings.TrimSpace(in.Subject),
		Status:  domain.StatusInProgress,
		Note:    strings.TrimSpace(in.Note),
	}
	switch {
	case d.Number == "":
		return nil, fmt.Errorf("%w: number is required", domain.ErrInvalidDossier)
	case d.Sender == "":
		return nil, fmt.Errorf("%w: sender is required", domain.ErrInvalidDossier)
	case d.Subject == "":
		return nil, fmt.Errorf("%w: subject is required", domain.ErrInvalidDossier)
	case d.Date.IsZero():
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidDossier)
	}

	if in.Status != "" {
		st := domain.Status(in.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
		}
		d.Status = st
	}

	services, err := s.checkServices(ctx, in.Services)
	if err != nil {
		return nil, err
	}
	d.Services = services

	obs, err := checkObservations(in.Observations)
	if err != nil {
		return nil, err
	}
	d.Observations = obs
	return d, nil
}

func (s *DossierService) newPatch(ctx context.Context, in ports.UpdateDossierInput) (domain.DossierPatch, error) {
	var p domain.DossierPatch

	required := []struct {
		name string
		src  *string
		dst  **string
	}{
		{"number", in.Number, &p.Number},
		{"sender", in.Sender, &p.Sender},
		{"subject", in.Subject, &p.Subject},
	}
	for _, f := range required {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return p, fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidDossier, f.name)
		}
		*f.dst = &v
	}

	if in.Date != nil {
		if in.Date.IsZero() {
			return p, fmt.Errorf("%w: date must not be empty", domain.ErrInvalidDossier)
		}
		p.Date = in.Date
	}
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		p.Note = &note
	}
	if in.Status != nil {
		st := domain.Status(*in.Status)
		if !st.Valid() {
			return p, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
		}
		p.Status = &st
	}
	if in.Services != nil {
		services, err := s.checkServices(ctx, in.Services)
		if err != nil {
			return p, err
		}
		p.Services = services
	}
	if in.Observations != nil {
		obs, err := checkObservations(in.Observations)
		if err != nil {
			return p, err
		}
		p.Observations = obs
	}
	return p, nil
}

// checkServices de-duplicates ids, keeping the first occurrence, and
// requires each one to exist in the catalog.
func (s *DossierService) checkServices(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.catalog.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: unknown service %q", domain.ErrInvalidDossier, id)
			}
			return nil, fmt.Errorf("check service %s: %w", id, err)
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, domain.ErrNoServices
	}
	return out, nil
}

func checkObservations(raw []string) ([]domain.Observation, error) {
	out := make([]domain.Observation, 0, len(raw))
	seen := make(map[domain.Observation]struct{}, len(raw))
	for _, r := range raw {
		o := domain.Observation(r)
		if !o.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidObservation, r)
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out, nil
}

func normalizeSort(sortBy string) string {
	switch sortBy {
	case ports.SortByDate, ports.SortByNumber, ports.SortByStatus, ports.SortByCreatedAt:
		return sortBy
	}
	return ports.SortByCreatedAt
}

func normalizeOrder(order string) string {
	if strings.EqualFold(order, ports.OrderAsc) {
		return ports.OrderAsc
	}
	return ports.OrderDesc
}
