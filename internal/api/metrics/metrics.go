// Package metrics defines and registers all custom Prometheus metrics for
// the identity API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// AccessDecisionsTotal counts request-gate outcomes.
// Labels:
//   - outcome: "allow" or "deny"
//   - reason: "open_route", "allowed", "missing_token", "invalid_token",
//     "token_expired", "unknown_identity", "inactive_identity",
//     "role_denied", "permission_denied", "directory_error"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of request-gate decisions, by outcome and reason.",
	},
	[]string{"outcome", "reason"},
)

// AccessCheckDuration measures how long a full gate evaluation takes, from
// token extraction to the final decision.
var AccessCheckDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "access_check_duration_seconds",
		Help:      "Duration of a full request-gate evaluation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts by result.
// Label:
//   - result: "success", "invalid_credentials", "not_verified",
//     "rate_limited", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations by result.
// Label:
//   - result: "created", "duplicate", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registrations, by result.",
	},
	[]string{"result"},
)
