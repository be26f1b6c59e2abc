package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportQueryLatency records how long each report kind takes end to end.
	ReportQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "accessdash_report_query_latency_seconds",
		Help:    "Report query latency in seconds by report kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// StatusTransitions counts committed status changes by target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessdash_status_transitions_total",
		Help: "Total number of access request status transitions by target status",
	}, []string{"status"})

	// ExportRows counts rows written by exports by format.
	ExportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessdash_export_rows_total",
		Help: "Total number of rows exported by format",
	}, []string{"format"})
)

// TrackReport returns a function that records the latency of a report of the
// given kind when called, typically via defer.
func TrackReport(kind string) func() {
	start := time.Now()
	return func() {
		ReportQueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
