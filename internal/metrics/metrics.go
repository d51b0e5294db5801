package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcheck_lookup_total",
			Help: "Lookups by classified query type and outcome",
		},
		[]string{"type", "outcome"},
	)

	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustcheck_lookup_duration_seconds",
			Help:    "End-to-end search orchestration duration",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
		[]string{"type"},
	)

	ReportSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcheck_report_submissions_total",
			Help: "Report submissions by target kind and status",
		},
		[]string{"target", "status"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustcheck_upstream_duration_seconds",
			Help:    "Verification backend request duration by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		LookupTotal,
		LookupDuration,
		ReportSubmissions,
		UpstreamDuration,
	)
}

// Handler exposes the Prometheus scrape endpoint through Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
