package ports

import (
	"context"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// EventPublisher accepts committed dossier changes for asynchronous delivery.
// Publish must not block the caller.
type EventPublisher interface {
	Publish(event domain.DossierEvent)
}

// EventSink receives dossier events from the dispatcher.
type EventSink interface {
	Name() string
	Handle(ctx context.Context, event domain.DossierEvent) error
}

// IdempotencyStore remembers which dossier an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (dossierID string, found bool, err error)
	Remember(ctx context.Context, key, dossierID string) error
}
