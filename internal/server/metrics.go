package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	uploadsTotal      prometheus.Counter
	uploadBytesTotal  prometheus.Counter
	uploadErrorsTotal *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics(build BuildInfo) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	f.NewGauge(prometheus.GaugeOpts{
		Name:        "csvdrop_build_info",
		Help:        "Build information.",
		ConstLabels: prometheus.Labels{"version": build.Version, "commit": build.Commit},
	}).Set(1)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csvdrop_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "csvdrop_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		uploadsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "csvdrop_uploads_total",
			Help: "Files stored successfully.",
		}),
		uploadBytesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "csvdrop_upload_bytes_total",
			Help: "Bytes written to the upload store.",
		}),
		uploadErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csvdrop_upload_errors_total",
			Help: "Rejected or failed uploads by reason.",
		}, []string{"reason"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(method string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordUpload records a successful upload
func (m *Metrics) RecordUpload(bytes int64) {
	m.uploadsTotal.Inc()
	m.uploadBytesTotal.Add(float64(bytes))
}

// RecordUploadError records an upload error
func (m *Metrics) RecordUploadError(reason string) {
	m.uploadErrorsTotal.WithLabelValues(reason).Inc()
}
