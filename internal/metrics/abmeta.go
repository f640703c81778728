package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// AcousticBrainz client metrics.
var (
	AcousticBrainzRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abmeta",
			Name:      "acousticbrainz_requests_total",
			Help:      "Total number of AcousticBrainz requests",
		},
		[]string{"level", "status"}, // status: "ok" / "not_found" / "invalid" / "error"
	)

	AcousticBrainzRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "abmeta",
			Name:      "acousticbrainz_request_duration_seconds",
			Help:      "AcousticBrainz request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"level"},
	)
)

// Document cache metrics.
var DocumentCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "abmeta",
		Name:      "document_cache_total",
		Help:      "Document cache hits and misses",
	},
	[]string{"result"}, // "hit" / "miss"
)

// Fetch and mapping metrics.
var (
	FetchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abmeta",
			Name:      "fetch_items_total",
			Help:      "Items processed by fetch runs",
		},
		[]string{"status"},
	)

	MappedAttributesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "abmeta",
			Name:      "mapped_attributes_total",
			Help:      "Attributes set on items",
		},
	)

	MappingDiagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abmeta",
			Name:      "mapping_diagnostics_total",
			Help:      "Scheme paths that could not be mapped",
		},
		[]string{"kind"}, // "missing_key" / "shape_mismatch"
	)
)

var registerOnce sync.Once

// Register registers the HTTP and service metrics. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			AcousticBrainzRequestsTotal,
			AcousticBrainzRequestDuration,
			DocumentCacheTotal,
			FetchItemsTotal,
			MappedAttributesTotal,
			MappingDiagnosticsTotal,
		)
	})
}
