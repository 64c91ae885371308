package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	BannerSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_saves_total",
			Help: "Total number of banner save attempts",
		},
		[]string{"outcome"},
	)

	GifSearches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_searches_total",
			Help: "Total number of Tenor searches",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		BannerSaves,
		GifSearches,
	)
}
