package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

type stubInserter struct {
	docs []interface{}
	err  error
}

func (s *stubInserter) InsertOne(_ context.Context, doc interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.docs = append(s.docs, doc)
	return &mongo.InsertOneResult{}, nil
}

func TestAuditMirror_Handle_StoresEventWithProcessedAt(t *testing.T) {
	processed := time.Date(2025, 1, 15, 10, 0, 1, 0, time.UTC)
	ins := &stubInserter{}
	m := &AuditMirror{coll: ins, now: func() time.Time { return processed }}

	entry := &domain.HistoryEntry{ID: "e-1", Action: "status"}
	err := m.Handle(context.Background(), domain.DossierEvent{
		Type:       domain.EventStatusChanged,
		DossierID:  "d-1",
		Status:     domain.StatusUrgent,
		ActorID:    "u-1",
		Entry:      entry,
		OccurredAt: processed.Add(-time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ins.docs) != 1 {
		t.Fatalf("expected one insert, got %d", len(ins.docs))
	}

	doc := ins.docs[0].(bson.M)
	if doc["dossier_id"] != "d-1" || doc["type"] != string(domain.EventStatusChanged) || doc["status"] != "urgent" {
		t.Errorf("unexpected document: %v", doc)
	}
	if at, ok := doc["processed_at"].(time.Time); !ok || !at.Equal(processed) {
		t.Errorf("processed_at = %v, want %v", doc["processed_at"], processed)
	}
	if doc["entry"] != entry {
		t.Errorf("history entry not mirrored: %v", doc["entry"])
	}
}

func TestAuditMirror_Handle_OmitsMissingEntry(t *testing.T) {
	ins := &stubInserter{}
	m := &AuditMirror{coll: ins, now: time.Now}

	if err := m.Handle(context.Background(), domain.DossierEvent{Type: domain.EventUpdated, DossierID: "d-1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := ins.docs[0].(bson.M)["entry"]; ok {
		t.Error("entry must be absent when the event has none")
	}
}

func TestAuditMirror_Handle_WrapsInsertError(t *testing.T) {
	boom := errors.New("write concern failed")
	m := &AuditMirror{coll: &stubInserter{err: boom}, now: time.Now}

	if err := m.Handle(context.Background(), domain.DossierEvent{DossierID: "d-1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}
