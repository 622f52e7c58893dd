package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	grpcRequests      *prometheus.CounterVec
	grpcDuration      *prometheus.HistogramVec
	grpcErrors        *prometheus.CounterVec
	componentMessages *prometheus.CounterVec
	componentFailures *prometheus.CounterVec
	componentStale    *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter registered on reg.
func NewPrometheusExporter(reg prometheus.Registerer) *PrometheusExporter {
	factory := promauto.With(reg)

	return &PrometheusExporter{
		grpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirschema_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method"},
		),
		grpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dirschema_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"method"},
		),
		grpcErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirschema_grpc_errors_total",
				Help: "Total number of gRPC errors",
			},
			[]string{"method"},
		),
		componentMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirschema_component_messages_total",
				Help: "Total number of events processed by UI components",
			},
			[]string{"component"},
		),
		componentFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirschema_component_failures_total",
				Help: "Total number of failures stored by UI components",
			},
			[]string{"component", "source"},
		),
		componentStale: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirschema_component_stale_resolutions_total",
				Help: "Total number of superseded query resolutions discarded by UI components",
			},
			[]string{"component"},
		),
	}
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(method string) {
	e.grpcRequests.WithLabelValues(method).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(method string, durationSeconds float64) {
	e.grpcDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordError records an error in Prometheus.
func (e *PrometheusExporter) RecordError(method string) {
	e.grpcErrors.WithLabelValues(method).Inc()
}

// RecordMessage records a processed component event.
func (e *PrometheusExporter) RecordMessage(component string) {
	e.componentMessages.WithLabelValues(component).Inc()
}

// RecordFailure records a component failure.
func (e *PrometheusExporter) RecordFailure(component, source string) {
	e.componentFailures.WithLabelValues(component, source).Inc()
}

// RecordStale records a discarded stale resolution.
func (e *PrometheusExporter) RecordStale(component string) {
	e.componentStale.WithLabelValues(component).Inc()
}
