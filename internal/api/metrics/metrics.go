// Package metrics defines the custom Prometheus metrics for the BookQuest
// API. It is the single source of truth for metric names, labels, and help
// strings. All metrics register with the default registry on import and are
// exposed next to the HTTP metrics on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookquest"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by result.",
	},
	[]string{"action", "result"},
)

// RateLimitedTotal counts requests rejected by the auth rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by route.",
	},
	[]string{"route"},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// RequestsTotal counts request lifecycle events.
// Label:
//   - event: "created", "cancelled" or "fulfilled"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of book request lifecycle events.",
	},
	[]string{"event"},
)

// QuotesTotal counts quote lifecycle events.
// Label:
//   - event: "submitted", "accepted" or "rejected"
var QuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Total number of quote lifecycle events.",
	},
	[]string{"event"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogLookupsTotal counts catalog proxy calls.
// Labels:
//   - operation: "book", "search" or "bulk"
//   - result: "ok", "invalid", "not_found" or "error"
var CatalogLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_lookups_total",
		Help:      "Total number of catalog lookups, by operation and result.",
	},
	[]string{"operation", "result"},
)

// CatalogLookupDuration measures catalog proxy latency, cache hits included.
var CatalogLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_lookup_duration_seconds",
		Help:      "Duration of catalog lookups, including cache hits.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
