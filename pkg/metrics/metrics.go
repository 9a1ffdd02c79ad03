package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	URLsInQueue         prometheus.Gauge
	ExtractionsTotal    *prometheus.CounterVec
	ExtractionDuration  *prometheus.HistogramVec
	ImagesPerPage       prometheus.Histogram
	AcquisitionAttempts *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	URLsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "urls_in_queue",
			Help: "Current number of URLs in the extraction queue.",
		},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total number of extraction attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of image extraction operations.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	ImagesPerPage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "images_per_page",
			Help:    "Number of deduplicated images discovered per extracted page.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	AcquisitionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_acquisition_attempts_total",
			Help: "Browser session acquisition attempts by fallback path and outcome.",
		},
		[]string{"path", "outcome"}, // path: idle, active, launch, direct; outcome: success, failure
	)
}
