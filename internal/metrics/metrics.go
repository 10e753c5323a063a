// Package metrics provides Prometheus metrics for newsdesk.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal counts outbound calls by upstream and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdesk",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to upstream APIs",
		},
		[]string{"upstream", "operation", "outcome"},
	)

	// UpstreamDuration measures outbound call latency.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsdesk",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream", "operation"},
	)

	// WalkNodes observes how many pages a single tree walk fetched.
	WalkNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsdesk",
			Name:      "walk_nodes",
			Help:      "Number of pages fetched per tree walk",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// OmittedSubtreesTotal counts subtrees dropped from a walk.
	OmittedSubtreesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdesk",
			Name:      "omitted_subtrees_total",
			Help:      "Total number of page subtrees omitted from a walk",
		},
		[]string{"reason"},
	)
)

// RecordUpstream records one outbound request.
func RecordUpstream(upstream, operation string, err error, started time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(upstream, operation, outcome).Inc()
	UpstreamDuration.WithLabelValues(upstream, operation).Observe(time.Since(started).Seconds())
}

// RecordWalk records the size of a finished walk.
func RecordWalk(fetched int) {
	WalkNodes.Observe(float64(fetched))
}

// RecordOmitted records a dropped subtree.
func RecordOmitted(reason string) {
	OmittedSubtreesTotal.WithLabelValues(reason).Inc()
}
