// Package metrics defines and registers all custom Prometheus metrics for the
// CcontaPub accounts API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts successfully registered accounts.
var AccountsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of accounts created.",
	},
)

// AccountsConfirmedTotal counts accounts that completed email confirmation.
var AccountsConfirmedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmed_total",
		Help:      "Total number of accounts confirmed.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "not_confirmed", "bad_credentials", "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts applied password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password resets applied.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts delivery attempts by kind and outcome.
// Labels:
//   - kind: "confirmation" or "password_reset"
//   - result: "ok" or "error"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notification delivery attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotificationSendDuration measures end-to-end delivery time per message.
// Label:
//   - kind: "confirmation" or "password_reset"
var NotificationSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// NotificationQueueDepth tracks pending messages per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
