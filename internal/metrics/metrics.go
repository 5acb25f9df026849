// Package metrics provides Prometheus metrics for conflict detection.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/observe"
)

var (
	// ComparisonsTotal tracks record pairs compared, by category
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "comparisons_total",
			Help:      "Total number of record pairs compared",
		},
		[]string{"category"},
	)

	// NameMatchesTotal tracks pairs that cleared the name similarity gate
	NameMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "name_matches_total",
			Help:      "Total number of pairs whose names were similar enough to compare content",
		},
		[]string{"category"},
	)

	// ContradictionsTotal tracks contradictions by the layer that found them
	ContradictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "contradictions_total",
			Help:      "Total number of contradictions by rule layer",
		},
		[]string{"layer"},
	)

	// DetailsTotal tracks emitted conflict details
	DetailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "details_total",
			Help:      "Total number of conflict details by type and severity",
		},
		[]string{"conflict_type", "severity"},
	)

	// BlockedBucketsTotal tracks categories too large for all-pairs comparison
	BlockedBucketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "blocked_buckets_total",
			Help:      "Total number of category buckets compared through candidate pairs",
		},
		[]string{"category"},
	)

	// RunDuration tracks how long a detection run takes
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "run_duration_seconds",
			Help:      "Duration of detection runs in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	// LastRunConflicts reports the conflict groups of the latest run by severity
	LastRunConflicts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "concord",
			Subsystem: "detection",
			Name:      "last_run_conflicts",
			Help:      "Conflict groups found by the latest run, by severity",
		},
		[]string{"severity"},
	)

	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concord",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concord",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)

// Observer feeds detection events into the counters above.
type Observer struct{}

func (Observer) Observe(e observe.Event) {
	switch e.Kind {
	case observe.KindCompare:
		ComparisonsTotal.WithLabelValues(e.Category).Inc()
	case observe.KindNameMatch:
		NameMatchesTotal.WithLabelValues(e.Category).Inc()
	case observe.KindContradiction:
		ContradictionsTotal.WithLabelValues(e.Layer).Inc()
	case observe.KindDetail:
		DetailsTotal.WithLabelValues(e.ConflictType, e.Severity).Inc()
	case observe.KindBlocked:
		BlockedBucketsTotal.WithLabelValues(e.Category).Inc()
	}
}

// RecordRun stores the duration and outcome of a detection run.
func RecordRun(elapsed time.Duration, s model.Summary) {
	RunDuration.Observe(elapsed.Seconds())
	LastRunConflicts.WithLabelValues(string(model.SeverityHigh)).Set(float64(s.HighSeverity))
	LastRunConflicts.WithLabelValues(string(model.SeverityMedium)).Set(float64(s.MediumSeverity))
	LastRunConflicts.WithLabelValues(string(model.SeverityLow)).Set(float64(s.LowSeverity))
}

// GinMiddleware records every request against its route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
