// Package metrics defines and registers all custom Prometheus metrics for the
// loan API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry at package init
// and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loans"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts created.
// Label:
//   - role: "admin", "officer", "investor" or "client"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// ── Loan metrics ──────────────────────────────────────────────────────────────

// LoanApplicationsTotal counts submitted loan applications.
var LoanApplicationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of loan applications submitted.",
	},
)

// LoanDecisionsTotal counts status transitions applied to loans.
// Label:
//   - status: the new loan status ("approved" or "declined")
var LoanDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of loan status transitions, by resulting status.",
	},
	[]string{"status"},
)

// ── Integration metrics ───────────────────────────────────────────────────────

// PaymentRequestsTotal counts STK push attempts.
// Label:
//   - result: "sent" or "error"
var PaymentRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_requests_total",
		Help:      "Total number of STK push requests, by outcome.",
	},
	[]string{"result"},
)

// PaymentCallbacksTotal counts provider callbacks.
// Label:
//   - result: "success", "failed" or "duplicate"
var PaymentCallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_callbacks_total",
		Help:      "Total number of payment callbacks received, by outcome.",
	},
	[]string{"result"},
)

// NotificationsTotal counts SMS delivery attempts.
// Label:
//   - result: "sent", "error" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of SMS notifications, by outcome.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks the number of SMS waiting in each worker channel.
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
