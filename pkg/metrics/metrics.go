package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts persisted notifications by taxonomy type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landhub_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// CapabilityChecks counts capability evaluations and their outcome (allowed|denied|error).
	CapabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landhub_capability_checks_total",
			Help: "Total number of role capability checks",
		},
		[]string{"capability", "result"},
	)

	// InquiryTransitions counts inquiry state machine transitions (submit|read|respond).
	InquiryTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landhub_inquiry_transitions_total",
			Help: "Total number of inquiry lifecycle transitions",
		},
		[]string{"transition"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "landhub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
