// Package metrics defines the Prometheus collectors for the leveling engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP ─────────────────────────────────────────────────────────────────────

// XPAwards counts completions by multiplier tier.
var XPAwards = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "xp_awards_total",
	Help:      "Total recorded completions by XP multiplier tier.",
}, []string{"tier"})

// XPAwarded sums the XP granted across all completions.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
})

// ─── Mismatch ───────────────────────────────────────────────────────────────

// MismatchTransitions counts scanner outcomes by action.
var MismatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "mismatch_transitions_total",
	Help:      "Level mismatch state transitions by action.",
}, []string{"action"})

// ConsistencyChecks counts workload consistency checks by recommendation.
var ConsistencyChecks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "consistency_checks_total",
	Help:      "Workload/level consistency checks by recommendation.",
}, []string{"recommendation"})

// ScanDuration tracks how long a mismatch scan takes.
var ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "vow",
	Name:      "scan_duration_seconds",
	Help:      "Duration of mismatch scans in seconds.",
	Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
})

// ─── Coach ──────────────────────────────────────────────────────────────────

// CoachFallbacks counts personalization requests that fell back to the
// deterministic plans.
var CoachFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "coach_fallbacks_total",
	Help:      "Baby-step personalizations that fell back to default plans.",
}, []string{"reason"})

// ─── LLM ────────────────────────────────────────────────────────────────────

// LLMRequests counts provider calls by provider and outcome.
var LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "llm_requests_total",
	Help:      "LLM provider calls by provider and outcome.",
}, []string{"provider", "outcome"})

// LLMTokens sums tokens by provider and direction ("input" or "output").
var LLMTokens = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "llm_tokens_total",
	Help:      "Tokens consumed by provider and direction.",
}, []string{"provider", "direction"})

var LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "vow",
	Name:      "llm_request_duration_seconds",
	Help:      "LLM provider call latency in seconds.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
}, []string{"provider"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts API requests by route pattern and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vow",
	Name:      "http_requests_total",
	Help:      "API requests by route and status.",
}, []string{"route", "status"})
