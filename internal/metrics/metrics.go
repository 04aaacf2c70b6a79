package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_http_requests_total",
		Help: "Total number of HTTP requests by route pattern and status code.",
	}, []string{"route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "climate_http_request_duration_seconds",
		Help:    "Duration of HTTP request handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "climate_db_query_duration_seconds",
		Help:    "Duration of SQL statements against the dataset in seconds.",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"op"})

	DBQueryErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_db_query_errors_total",
		Help: "Total number of failed SQL statements.",
	}, []string{"op"})

	registry     = prometheus.NewRegistry()
	registerOnce sync.Once
)

// Register adds the collectors to the package registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			HTTPRequestsTotal,
			HTTPRequestDuration,
			DBQueryDuration,
			DBQueryErrorsTotal,
		)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
