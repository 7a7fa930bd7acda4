package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togglenest_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "togglenest_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ActivitiesLogged counts activities persisted by action type.
	ActivitiesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togglenest_activities_logged_total",
		Help: "Total number of activity entries written by action type",
	}, []string{"action"})

	// ActivityLogFailures counts swallowed activity write failures.
	ActivityLogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "togglenest_activity_log_failures_total",
		Help: "Total number of activity entries that could not be written",
	})

	// WebSocketConnections is the number of live feed subscribers.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "togglenest_websocket_connections_active",
		Help: "Number of active activity feed WebSocket connections",
	})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "togglenest_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)
