// Package metrics defines and registers all custom Prometheus metrics for the
// dossier tracking API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dossier"

// ── Dossier metrics ───────────────────────────────────────────────────────────

// DossiersCreatedTotal counts newly created dossiers.
// Label:
//   - status: initial status of the dossier
var DossiersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dossiers_created_total",
		Help:      "Total number of dossiers created, by initial status.",
	},
	[]string{"status"},
)

// StatusTransitionsTotal counts effective status changes.
// Label:
//   - to: new status
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of dossier status transitions, by target status.",
	},
	[]string{"to"},
)

// DossiersDeletedTotal counts deletions.
// Label:
//   - mode: "tombstone" or "hard"
var DossiersDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dossiers_deleted_total",
		Help:      "Total number of dossiers deleted, by delete mode.",
	},
	[]string{"mode"},
)

// NotFoundIgnoredTotal counts update/delete calls on unknown ids that were
// absorbed because not-found handling is lenient.
// Label:
//   - operation: "update" or "delete"
var NotFoundIgnoredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "not_found_ignored_total",
		Help:      "Total number of update/delete calls on unknown dossiers treated as no-ops.",
	},
	[]string{"operation"},
)

// IdempotentReplaysTotal counts creations answered from an earlier Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of dossier creations served from a previous Idempotency-Key.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// PermissionDenialsTotal counts refused operations.
// Labels:
//   - operation: the gated operation (e.g. "dossier.delete")
//   - role: the actor's role
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of operations refused by the permission evaluator.",
	},
	[]string{"operation", "role"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Event dispatch metrics ────────────────────────────────────────────────────

// EventsPublishedTotal counts events delivered to a sink.
// Labels:
//   - sink: sink name (e.g. "log", "mongo", "amqp")
//   - type: event type (e.g. "dossier.created")
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of dossier events delivered to a sink.",
	},
	[]string{"sink", "type"},
)

// EventSinkErrorsTotal counts failed sink deliveries.
// Label:
//   - sink: sink name
var EventSinkErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_sink_errors_total",
		Help:      "Total number of dossier events a sink failed to handle.",
	},
	[]string{"sink"},
)

// EventsDroppedTotal counts events dropped because a worker channel was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of dossier events dropped on a full dispatcher channel.",
	},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventDispatchDuration measures how long one event takes to go through every sink.
// Label:
//   - type: event type
var EventDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_dispatch_duration_seconds",
		Help:      "Duration of fanning one dossier event out to all sinks.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
