package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reporting_mirror",
		Name:      "flush_total",
		Help:      "Count of ledger entry batches written to the reporting store.",
	}, []string{"status"})

	mirrorFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reporting_mirror",
		Name:      "flush_duration_seconds",
		Help:      "Duration of writing a batch to the reporting store.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	mirrorFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reporting_mirror",
		Name:      "flush_size",
		Help:      "Number of ledger entries per flushed batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	mirrorBackfillPageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reporting_mirror",
		Name:      "backfill_page_duration_seconds",
		Help:      "Duration of copying one page of confirmed entries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// ReportingMirror tracks metrics for the reporting mirror pipeline.
type ReportingMirror struct{}

func NewReportingMirror() *ReportingMirror {
	return &ReportingMirror{}
}

// ObserveFlush records a batch write to the reporting store.
func (m ReportingMirror) ObserveFlush(err error, entries int, started time.Time) {
	status := statusOf(err)
	mirrorFlushTotal.WithLabelValues(status).Inc()
	mirrorFlushDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	mirrorFlushSize.Observe(float64(entries))
}

// ObserveBackfillPage records copying a single page during backfill.
func (m ReportingMirror) ObserveBackfillPage(err error, started time.Time) {
	mirrorBackfillPageDuration.WithLabelValues(statusOf(err)).Observe(time.Since(started).Seconds())
}
