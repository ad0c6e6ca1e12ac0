// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "boardtime",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	VotesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "votes_submitted_total",
		Help:      "Accepted vote submissions, split into new and replaced.",
	}, []string{"kind"})

	VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "votes_rejected_total",
		Help:      "Rejected vote submissions by reason.",
	}, []string{"reason"})

	MeetingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "meetings_created_total",
		Help:      "Meetings created.",
	})

	MeetingsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "meetings_updated_total",
		Help:      "Meetings updated by their owner.",
	})

	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "event_publish_failures_total",
		Help:      "Domain events that could not be handed to the publisher.",
	}, []string{"type"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtime",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"scope"})
)

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
