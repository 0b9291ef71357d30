package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UndoTotal counts undo attempts by outcome (applied, failed, not_found).
	UndoTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "undo_operations_total",
			Help: "Total number of undo attempts by outcome",
		},
		[]string{"status"},
	)

	// OplogPurgedTotal counts operation-log entries removed by the retention sweep.
	OplogPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oplog_entries_purged_total",
			Help: "Total number of expired operation-log entries purged",
		},
	)

	// BackupFailures counts operation-log backup writes that failed and were
	// swallowed by a CRUD handler.
	BackupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oplog_backup_failures_total",
			Help: "Total number of swallowed operation-log backup failures",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UndoTotal, OplogPurgedTotal, BackupFailures)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncUndo increments the undo counter for the given outcome.
func IncUndo(status string) {
	UndoTotal.WithLabelValues(status).Inc()
}

// AddOplogPurged adds n to the purge counter.
func AddOplogPurged(n int64) {
	OplogPurgedTotal.Add(float64(n))
}

// IncBackupFailure increments the swallowed-backup-failure counter.
func IncBackupFailure() {
	BackupFailures.Inc()
}
