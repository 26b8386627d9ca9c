// Package metrics defines and registers the custom Prometheus metrics of the
// todo API. It is the single source of truth for metric names, labels and
// help strings. All vectors are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Authentication ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "failure" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// TokenChecksTotal counts bearer token checks made by the authorization gate.
// Rejections are not broken down by reason.
// Label:
//   - result: "valid" or "invalid"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of bearer token checks, by outcome.",
	},
	[]string{"result"},
)

// PermissionDeniedTotal counts requests rejected for a role mismatch.
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of authenticated requests rejected by role.",
	},
	[]string{"role"},
)

// RateLimitedTotal counts requests rejected by the per-client limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"route"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by what happened to them.
// Label:
//   - result: "written", "failed" or "dropped" (queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending per worker.",
	},
	[]string{"worker_id"},
)

// ── Uploads ──────────────────────────────────────────────────────────────────

// UploadBytes observes the size of stored uploads.
// Label:
//   - kind: "icon" or "attachment"
var UploadBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of files written to object storage.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB … 16MiB
	},
	[]string{"kind"},
)
