package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "charcoal",
			Subsystem: "cms",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "charcoal",
			Subsystem: "cms",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "charcoal",
			Subsystem: "cms",
			Name:      "uploads_total",
			Help:      "Upload flow steps by media kind",
		},
		[]string{"kind", "stage", "status"},
	)

	ObjectStoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "charcoal",
			Subsystem: "cms",
			Name:      "object_store_operations_total",
			Help:      "Object store calls by backend and operation",
		},
		[]string{"backend", "operation", "status"},
	)
)

func RecordUpload(kind, stage string, err error) {
	UploadsTotal.WithLabelValues(kind, stage, statusLabel(err)).Inc()
}

func RecordObjectStoreOp(backend, operation string, err error) {
	ObjectStoreOperationsTotal.WithLabelValues(backend, operation, statusLabel(err)).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
