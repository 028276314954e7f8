// Package metrics defines and registers all custom Prometheus metrics for the
// attendance service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// ── Verification metrics ─────────────────────────────────────────────────────

// DecisionsTotal counts verification outcomes.
// Labels:
//   - outcome: "admitted" or "rejected"
//   - reason: the rejection reason (e.g. "outside_geofence"), empty when admitted
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of attendance verification decisions.",
	},
	[]string{"outcome", "reason"},
)

// VerificationErrorsTotal counts verifications aborted by an infrastructure failure.
// Label:
//   - stage: "roster", "duplicate_check", "lock" or "append"
var VerificationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_errors_total",
		Help:      "Total number of verifications that failed on a collaborator.",
	},
	[]string{"stage"},
)

// VerificationDuration measures the end-to-end latency of Verify.
// Label:
//   - outcome: "admitted", "rejected" or "error"
var VerificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "verification_duration_seconds",
		Help:      "Duration of a verification from roster lookup to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Aggregation metrics ──────────────────────────────────────────────────────

// ReportsBuiltTotal counts daily reports served.
var ReportsBuiltTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_built_total",
		Help:      "Total number of daily reports built.",
	},
)

// LiveSnapshotSubjects reports the size of the last live snapshot, by status.
// Label:
//   - status: "within_range", "out_of_range" or "no_report"
var LiveSnapshotSubjects = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_snapshot_subjects",
		Help:      "Number of subjects in the last live-location snapshot, by status.",
	},
	[]string{"status"},
)

// ResetsTotal counts supervisor resets and the events they removed.
var ResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resets_total",
		Help:      "Total number of attendance resets performed.",
	},
)

var ResetEventsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_events_deleted_total",
		Help:      "Total number of attendance events removed by resets.",
	},
)

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsQueueDepth tracks the current number of notices waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsTotal counts delivery attempts.
// Label:
//   - result: "sent", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of reset notifications, labelled by result.",
	},
	[]string{"result"},
)
