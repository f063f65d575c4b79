package sgp4

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	propagationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgp4_propagations_total",
			Help: "Total number of batch propagations, by method and result.",
		},
		[]string{"method", "result"},
	)

	batchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sgp4_batch_duration_seconds",
			Help:    "Batch propagation duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	tleParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgp4_tle_parsed_total",
			Help: "Total number of element sets read, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(propagationsTotal)
	prometheus.MustRegister(batchDurationSeconds)
	prometheus.MustRegister(tleParsedTotal)
}

// MetricsHandler returns the Prometheus metrics HTTP handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
