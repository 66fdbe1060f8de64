// Package metrics defines and registers all custom Prometheus metrics
// for the booking portal. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - result: "success" or "failure"
//   - source: identity provenance on success ("authoritative" or
//     "degraded"), empty on failure
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome and identity source.",
	},
	[]string{"result", "source"},
)

// RegistrationsTotal counts registration attempts by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome (success/failure).",
	},
	[]string{"result"},
)

// BootstrapOutcomes counts session bootstrap terminal states.
// Label:
//   - state: "anonymous", "authoritative", "degraded"
var BootstrapOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_outcomes_total",
		Help:      "Terminal states reached by the session bootstrap.",
	},
	[]string{"state"},
)

// BootstrapDuration measures how long the one-shot bootstrap takes,
// including the authoritative profile fetch when one happens.
var BootstrapDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bootstrap_duration_seconds",
		Help:      "Duration of the session bootstrap.",
		Buckets:   prometheus.DefBuckets,
	},
)

// GuardDecisions counts navigation decisions per guard.
// Labels:
//   - guard: "public", "protected", "admin", "contain"
//   - decision: "render", "redirect", "pending"
var GuardDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Navigation decisions taken by route guards.",
	},
	[]string{"guard", "decision"},
)
