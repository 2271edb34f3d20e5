package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the functions host.
type Metrics struct {
	InvocationsTotal  *prometheus.CounterVec
	InvocationSeconds *prometheus.HistogramVec
	ActiveInvocations prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		InvocationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "functions_invocations_total",
			Help: "Total number of function invocations by outcome.",
		}, []string{"function", "status"}),
		InvocationSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "functions_invocation_duration_seconds",
			Help:    "Duration of function invocations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"function"}),
		ActiveInvocations: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "functions_active_invocations",
			Help: "Current number of invocations in flight.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "functions_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "functions_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}
