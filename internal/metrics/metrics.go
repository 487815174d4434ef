// Package metrics holds the Prometheus collectors shared by the CLI and the
// HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APICalls counts YouTube Data API calls by endpoint and outcome.
	APICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytstats_youtube_api_calls_total",
			Help: "Total YouTube Data API calls, by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	APICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytstats_youtube_api_call_duration_seconds",
			Help:    "YouTube Data API call duration in seconds, by endpoint.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Reports counts finished pipeline runs by error kind ("ok" on success).
	Reports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytstats_reports_total",
			Help: "Total channel reports produced, by outcome.",
		},
		[]string{"outcome"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytstats_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{APICalls, APICallDuration, Reports, RequestDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
