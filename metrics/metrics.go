// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bento"

var (
	// SubscribeOutcomes counts subscription attempts by terminal outcome.
	SubscribeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscribe",
			Name:      "outcomes_total",
			Help:      "Subscription attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ProviderRequestDuration tracks mailing-list provider latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "subscribe",
			Name:      "provider_request_duration_seconds",
			Help:      "Mailing-list provider request duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status_code"},
	)

	// CMSQueryDuration tracks content store query latency.
	CMSQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cms",
			Name:      "query_duration_seconds",
			Help:      "Content store query duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"query", "outcome"},
	)

	// LinkClicks counts outbound link redirects.
	LinkClicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "links",
			Name:      "clicks_total",
			Help:      "Outbound link redirects by link id",
		},
		[]string{"link"},
	)
)

// RecordSubscribeOutcome increments the outcome counter.
func RecordSubscribeOutcome(outcome string) {
	SubscribeOutcomes.WithLabelValues(outcome).Inc()
}

// RecordCMSQuery observes one content store query.
func RecordCMSQuery(query, outcome string, d time.Duration) {
	CMSQueryDuration.WithLabelValues(query, outcome).Observe(d.Seconds())
}
