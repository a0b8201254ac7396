package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summaraize_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AgentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summaraize_agents_created_total",
			Help: "Total agents created",
		},
	)

	MeetingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_meetings_created_total",
			Help: "Total meetings created",
		},
		[]string{"status"},
	)

	MeetingsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summaraize_meetings_updated_total",
			Help: "Total meetings updated",
		},
	)

	MeetingsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summaraize_meetings_deleted_total",
			Help: "Total meetings deleted",
		},
	)

	MeetingListQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_meeting_list_queries_total",
			Help: "Total meeting list queries",
		},
		[]string{"filtered"}, // "search" or "none"
	)

	// Auth metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_auth_failures_total",
			Help: "Total rejected unauthenticated requests",
		},
		[]string{"reason"},
	)

	SessionCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_session_cache_total",
			Help: "Session cache lookups",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaraize_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
