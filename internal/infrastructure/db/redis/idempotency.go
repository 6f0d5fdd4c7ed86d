package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arsn/dossier-tracking/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

// keyValue is the subset of *redis.Client the idempotency store needs.
type keyValue interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// IdempotencyStore remembers which dossier an Idempotency-Key created.
// Key format: idem:dossier:<key>
type IdempotencyStore struct {
	client keyValue
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// Lookup returns the dossier id stored for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember stores the dossier id for key (expires after idempotencyTTL).
// An existing mapping is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, key, dossierID string) error {
	if err := s.client.SetNX(ctx, s.key(key), dossierID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:dossier:" + k
}
