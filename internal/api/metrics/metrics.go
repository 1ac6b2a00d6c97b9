// Package metrics defines the custom Prometheus metrics of the Hastakala API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hastakala"

// ── Auth ─────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Uploads ──────────────────────────────────────────────────────────────────

// UploadsTotal counts upload-then-record operations.
// Labels:
//   - kind: "artwork", "event" or "profile"
//   - result: "stored", "rejected" (validation) or "failed" (storage)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by resource kind and result.",
	},
	[]string{"kind", "result"},
)

// SagaCompensationsTotal counts compensating actions run after a failed step.
// Labels:
//   - saga: e.g. "artwork.create", "cart.checkout"
//   - step: the step being undone (e.g. "write_file")
var SagaCompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_compensations_total",
		Help:      "Total number of compensating actions executed, by saga and step.",
	},
	[]string{"saga", "step"},
)

// OrphanCleanupFailuresTotal counts files that could not be removed during
// cleanup and may now be orphaned.
var OrphanCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_cleanup_failures_total",
		Help:      "Total number of best-effort file deletions that failed.",
	},
)

// ── Notifications ────────────────────────────────────────────────────────────

// NotificationsWrittenTotal counts notification records written.
// Label:
//   - kind: "comment", "like", "event" or "sale"
var NotificationsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_written_total",
		Help:      "Total number of notification records written, by kind.",
	},
	[]string{"kind"},
)

// NotificationsFailedTotal counts notices whose records could not be written.
var NotificationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Total number of notices that failed to persist, by kind.",
	},
	[]string{"kind"},
)

// NotificationsDroppedTotal counts notices dropped because a worker queue was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notices dropped by the dispatcher.",
	},
)

// NotifyQueueDepth tracks the number of notices waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Commerce ─────────────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "paid", "out_of_stock" or "failed"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)
