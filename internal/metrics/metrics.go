package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stagedNameRegex = regexp.MustCompile(`[0-9a-f]{32}[0-9]{14}\.[A-Za-z]+`)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path", "status"},
	)

	ImageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qimage_operations_total",
			Help: "Total number of image operations by outcome",
		},
		[]string{"operation", "status"},
	)

	ImageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qimage_operation_duration_seconds",
			Help:    "Duration of image operations in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	ImageOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qimage_operation_errors_total",
			Help: "Total number of failed image operations by error code",
		},
		[]string{"operation", "code"},
	)

	ImagesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qimage_images_written_total",
			Help: "Total number of images written by format",
		},
		[]string{"format"},
	)

	ImagePixelsWritten = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qimage_image_pixels",
			Help:    "Pixel count of written images",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"operation"},
	)

	UploadsStagedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qimage_uploads_staged_total",
			Help: "Total number of uploads moved out of temporary storage",
		},
		[]string{"status"},
	)

	BatchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qimage_batch_items_total",
			Help: "Total number of batch items processed",
		},
		[]string{"operation", "status"},
	)

	BatchItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qimage_batch_item_duration_seconds",
			Help:    "Duration of batch items in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	BatchActiveItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qimage_batch_active_items",
			Help: "Number of batch items currently being processed",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "environment", "service"},
	)

	AppUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_up",
			Help: "Application is up and running",
		},
	)
)

// NormalizePath collapses staged file names so each route keeps one label.
func NormalizePath(path string) string {
	return stagedNameRegex.ReplaceAllString(path, ":name")
}

func RecordOperation(operation, status string, durationSeconds float64) {
	ImageOperationsTotal.WithLabelValues(operation, status).Inc()
	ImageOperationDuration.WithLabelValues(operation).Observe(durationSeconds)
}

func RecordOperationError(operation, code string) {
	ImageOperationErrors.WithLabelValues(operation, code).Inc()
}

func RecordImageWritten(operation, format string, width, height int) {
	ImagesWrittenTotal.WithLabelValues(format).Inc()
	ImagePixelsWritten.WithLabelValues(operation).Observe(float64(width) * float64(height))
}

func RecordUploadStaged(status string) {
	UploadsStagedTotal.WithLabelValues(status).Inc()
}

func SetAppInfo(version, environment, service string) {
	AppInfo.WithLabelValues(version, environment, service).Set(1)
	AppUp.Set(1)
}
