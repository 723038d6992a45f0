// Package metrics defines the custom Prometheus metrics of the portal. It is
// the single source of truth for metric names, labels and help strings.
//
// All metrics are registered with the default registry on package init via
// promauto and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthTransitionsTotal counts auth state machine transitions.
// Labels:
//   - from, to: "loading", "anonymous" or "authenticated"
var AuthTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_transitions_total",
		Help:      "Total number of auth state transitions.",
	},
	[]string{"from", "to"},
)

// SessionVerificationsTotal counts startup identity checks.
// Label:
//   - outcome: "anonymous", "verified", "rejected" or "unverified"
var SessionVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_verifications_total",
		Help:      "Total number of cached-token verifications, by outcome.",
	},
	[]string{"outcome"},
)

// SessionTrustCacheTotal counts verifications that fell back to the cached
// profile because the API could not be reached.
var SessionTrustCacheTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_trust_cache_total",
		Help:      "Total number of times a cached profile was trusted after a network failure.",
	},
)

// SessionRegistrySize tracks how many application sessions are held in memory.
var SessionRegistrySize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_registry_size",
		Help:      "Current number of application sessions held by the registry.",
	},
)

// ── Routing metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard decisions.
// Labels:
//   - requirement: "any-authenticated" or "admin-only"
//   - decision: "admit", "wait", "redirect_login" or "redirect_dashboard"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"requirement", "decision"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the marketplace API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "auth_me", "bookings_mine")
//   - outcome: "ok", "api_error" or "unavailable"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of calls to the marketplace API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "outcome"},
)

// BookingsSubmittedTotal counts booking submissions.
// Label:
//   - caller: "authenticated" or "anonymous"
var BookingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_submitted_total",
		Help:      "Total number of bookings submitted, by caller kind.",
	},
	[]string{"caller"},
)
