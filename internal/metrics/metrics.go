package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	entrySaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arbeitszeit",
			Name:      "entries_saved_total",
			Help:      "Count of saved timesheet entries by day type and result.",
		},
		[]string{"day_type", "result"},
	)

	entryDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arbeitszeit",
			Name:      "entries_deleted_total",
			Help:      "Count of deleted timesheet entries.",
		},
	)

	validationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arbeitszeit",
			Name:      "validation_rejected_total",
			Help:      "Count of rejected saves by reason.",
		},
		[]string{"reason"},
	)

	storeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arbeitszeit",
			Name:      "store_operation_duration_seconds",
			Help:      "Latency of spreadsheet operations.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"backend", "op"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arbeitszeit",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(entrySaved, entryDeleted, validationRejected, storeDuration, httpRequests)
	})
}

func IncEntrySaved(dayType, result string) {
	entrySaved.WithLabelValues(dayType, result).Inc()
}

func IncEntryDeleted() {
	entryDeleted.Inc()
}

func IncValidationRejected(reason string) {
	validationRejected.WithLabelValues(reason).Inc()
}

// ObserveStore records the duration of a store operation started at start.
func ObserveStore(backend, op string, start time.Time) {
	storeDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}
