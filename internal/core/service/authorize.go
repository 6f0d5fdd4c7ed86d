package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/pkg/metrics"
	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// authorize turns a negative permission decision into domain.ErrForbidden.
func authorize(log zerolog.Logger, actor domain.Actor, op domain.Operation) error {
	if actor.Can(op) {
		return nil
	}
	metrics.PermissionDenialsTotal.WithLabelValues(string(op), string(actor.Role)).Inc()
	log.Debug().Str("actor_id", actor.ID).Str("role", string(actor.Role)).Str("operation", string(op)).Msg("permission denied")
	return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
}
