// Package metrics defines the custom Prometheus metrics for the MedChainAI
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medchain"

// GuardDecisionsTotal counts route-guard outcomes.
// Labels:
//   - guard: "admin", "staff", or "auth"
//   - outcome: "authorized", "unauthorized", "forbidden", "timeout"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route-guard evaluations, by guard and outcome.",
	},
	[]string{"guard", "outcome"},
)

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - method: "password", "google", "register"
//   - result: "ok" or "failed"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// NotificationsPushedTotal counts notification deliveries to websocket peers.
// Label:
//   - result: "delivered" or "dropped" (no live connection, or full buffer)
var NotificationsPushedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_pushed_total",
		Help:      "Total number of notification pushes, by delivery result.",
	},
	[]string{"result"},
)

// NotificationConnections tracks currently registered websocket connections.
var NotificationConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_connections",
		Help:      "Number of live registered notification connections.",
	},
)

// RatePollFailuresTotal counts failed exchange-rate refreshes.
var RatePollFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_poll_failures_total",
		Help:      "Total number of exchange-rate refresh attempts that failed.",
	},
)
