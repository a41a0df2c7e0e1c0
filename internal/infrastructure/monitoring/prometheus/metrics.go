package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Default histogram buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLookupDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 15, 30, 60}
	DefaultBatchSizeBuckets      = []float64{1, 5, 10, 50, 100, 500, 1000, 5000}
)

// LookupMetrics holds every metric the lookup pipeline emits.
type LookupMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Lookup pipeline
	LookupsTotal         *prometheus.CounterVec // labels: territory, outcome
	LookupDuration       *prometheus.HistogramVec
	TracksQueried        *prometheus.HistogramVec
	TracksResolved       *prometheus.CounterVec // label: right_type
	TracksUnresolved     *prometheus.CounterVec
	MalformedGrantsTotal *prometheus.CounterVec

	// Catalog access
	CatalogFetchDuration *prometheus.HistogramVec // label: backend
	CatalogErrorsTotal   *prometheus.CounterVec   // label: backend

	// Metadata cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewLookupMetrics registers the full lookup metric set on collector.
func NewLookupMetrics(collector MetricsCollector) *LookupMetrics {
	return &LookupMetrics{
		HTTPRequestsTotal: collector.RegisterCounter(
			"http_requests_total", "Total HTTP requests", "method", "path", "status"),
		HTTPRequestDuration: collector.RegisterHistogram(
			"http_request_duration_seconds", "HTTP request duration",
			DefaultHTTPDurationBuckets, "method", "path"),

		LookupsTotal: collector.RegisterCounter(
			"lookups_total", "Completed lookup queries", "territory", "outcome"),
		LookupDuration: collector.RegisterHistogram(
			"lookup_duration_seconds", "End-to-end lookup evaluation time",
			DefaultLookupDurationBuckets, "territory"),
		TracksQueried: collector.RegisterHistogram(
			"lookup_tracks_queried", "Identifiers per lookup after normalization",
			DefaultBatchSizeBuckets),
		TracksResolved: collector.RegisterCounter(
			"lookup_tracks_resolved_total", "Tracks with a resolved right", "right_type"),
		TracksUnresolved: collector.RegisterCounter(
			"lookup_tracks_unresolved_total", "Tracks with no applicable right"),
		MalformedGrantsTotal: collector.RegisterCounter(
			"catalog_malformed_grants_total", "Catalog rows skipped as malformed"),

		CatalogFetchDuration: collector.RegisterHistogram(
			"catalog_fetch_duration_seconds", "Grant batch fetch time",
			DefaultLookupDurationBuckets, "backend"),
		CatalogErrorsTotal: collector.RegisterCounter(
			"catalog_errors_total", "Catalog read failures", "backend"),

		CacheHitsTotal: collector.RegisterCounter(
			"metadata_cache_hits_total", "Metadata cache hits"),
		CacheMissesTotal: collector.RegisterCounter(
			"metadata_cache_misses_total", "Metadata cache misses"),
	}
}
