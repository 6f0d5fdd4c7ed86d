package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

const eventsCollection = "dossier_events"

// inserter is the part of *mongo.Collection the mirror writes through.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// AuditMirror copies every dispatched dossier event into the dossier_events
// collection so the trail survives hard deletes.
type AuditMirror struct {
	coll inserter
	now  func() time.Time
}

func NewAuditMirror(db *mongo.Database) *AuditMirror {
	return &AuditMirror{coll: db.Collection(eventsCollection), now: time.Now}
}

var _ ports.EventSink = (*AuditMirror)(nil)

func (m *AuditMirror) Name() string { return "mongo" }

// Handle persists the event with the time it was processed.
func (m *AuditMirror) Handle(ctx context.Context, event domain.DossierEvent) error {
	if _, err := m.coll.InsertOne(ctx, eventDocument(event, m.now().UTC())); err != nil {
		return fmt.Errorf("mirror dossier event: %w", err)
	}
	return nil
}

func eventDocument(event domain.DossierEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"type":         string(event.Type),
		"dossier_id":   event.DossierID,
		"number":       event.Number,
		"status":       string(event.Status),
		"actor_id":     event.ActorID,
		"occurred_at":  event.OccurredAt.UTC(),
		"processed_at": processedAt,
	}
	if event.Entry != nil {
		doc["entry"] = event.Entry
	}
	return doc
}
