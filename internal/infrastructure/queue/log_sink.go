package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// LogSink writes every dossier event as a structured log line.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Handle(_ context.Context, event domain.DossierEvent) error {
	ev := s.log.Info().
		Str("type", string(event.Type)).
		Str("dossier_id", event.DossierID).
		Str("number", event.Number).
		Str("status", string(event.Status)).
		Str("actor_id", event.ActorID).
		Time("occurred_at", event.OccurredAt)
	if event.Entry != nil {
		ev = ev.Str("action", event.Entry.Action).Str("entry_id", event.Entry.ID)
	}
	ev.Msg("dossier event")
	return nil
}
