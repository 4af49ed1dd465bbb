package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder encapsulates Prometheus instrumentation for outbound API calls.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	downloadBytes   prometheus.Counter
}

// NewRecorder registers the core collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of outbound API requests",
	}, []string{"method", "path", "status"})

	downloadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_download_bytes_total",
		Help: "Total bytes of report payloads fetched",
	})

	registry.MustRegister(requestDuration, requestTotal, downloadBytes)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		downloadBytes:   downloadBytes,
	}
}

// ObserveRequest records a completed outbound call. Status zero marks a
// transport failure that produced no response.
func (r *Recorder) ObserveRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveDownload records the size of a fetched report payload.
func (r *Recorder) ObserveDownload(bytes int) {
	if r == nil {
		return
	}
	r.downloadBytes.Add(float64(bytes))
}

// Handler exposes the Prometheus scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}
