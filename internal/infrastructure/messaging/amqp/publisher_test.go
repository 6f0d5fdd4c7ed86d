package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubChannel struct {
	queue  string
	msgs   []amqp.Publishing
	err    error
	closed bool
}

func (c *stubChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.queue = key
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *stubChannel) Close() error {
	c.closed = true
	return nil
}

func newTestPublisher(ch *stubChannel) *Publisher {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return &Publisher{ch: ch, queue: DefaultQueue, now: func() time.Time { return at }}
}

func statusEvent(entryID string) domain.DossierEvent {
	return domain.DossierEvent{
		Type:      domain.EventStatusChanged,
		DossierID: "d-1",
		Number:    "ARSN-2025-001",
		Status:    domain.StatusClosed,
		ActorID:   "u-1",
		Entry:     &domain.HistoryEntry{ID: entryID, Action: "status"},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPublisher_Handle_PublishesPersistentJSON(t *testing.T) {
	ch := &stubChannel{}
	p := newTestPublisher(ch)

	if err := p.Handle(context.Background(), statusEvent("e-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.queue != DefaultQueue || len(ch.msgs) != 1 {
		t.Fatalf("expected one message on %s, got %d on %q", DefaultQueue, len(ch.msgs), ch.queue)
	}

	msg := ch.msgs[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Errorf("unexpected delivery settings: mode %d type %q", msg.DeliveryMode, msg.ContentType)
	}
	if msg.Type != string(domain.EventStatusChanged) || msg.CorrelationId != "d-1" {
		t.Errorf("unexpected type/correlation: %q/%q", msg.Type, msg.CorrelationId)
	}

	var decoded domain.DossierEvent
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.DossierID != "d-1" || decoded.Status != domain.StatusClosed {
		t.Errorf("unexpected body: %+v", decoded)
	}
}

func TestPublisher_Handle_MessageIDsDifferPerEvent(t *testing.T) {
	ch := &stubChannel{}
	p := newTestPublisher(ch)

	events := []domain.DossierEvent{statusEvent("e-1"), statusEvent("e-2"), statusEvent(""), statusEvent("")}
	events[3].Entry = nil
	for _, e := range events {
		if err := p.Handle(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}

	if ch.msgs[0].MessageId != "e-1" || ch.msgs[1].MessageId != "e-2" {
		t.Errorf("message id must be the history entry id, got %q and %q", ch.msgs[0].MessageId, ch.msgs[1].MessageId)
	}
	seen := map[string]bool{}
	for _, m := range ch.msgs {
		if m.MessageId == "" || seen[m.MessageId] {
			t.Fatalf("message ids must be unique and non-empty, got %q", m.MessageId)
		}
		seen[m.MessageId] = true
	}
}

func TestPublisher_Handle_WrapsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := newTestPublisher(&stubChannel{err: boom})

	if err := p.Handle(context.Background(), statusEvent("e-1")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
}

func TestPublisher_CloseWithoutConnection(t *testing.T) {
	ch := &stubChannel{}
	if err := newTestPublisher(ch).Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}
