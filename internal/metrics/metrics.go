package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Market data metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swapopt_pool_count",
		Help: "Total number of pools loaded across all venue books",
	})

	TokenCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swapopt_token_count",
		Help: "Total number of tokens in the registry",
	})

	// Reserve oracle metrics
	ReserveFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapopt_reserve_fetches_total",
		Help: "Total number of reserve batch fetches issued",
	})

	ReserveFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapopt_reserve_fetch_duration_seconds",
		Help:    "Reserve batch fetch duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	ReserveAccountsMissing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapopt_reserve_accounts_missing_total",
		Help: "Total number of vault accounts the RPC returned no data for",
	})

	ReserveCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapopt_reserve_cache_hits_total",
		Help: "Total number of vault balances served from the local cache",
	})

	// Optimizer metrics
	OptRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapopt_opt_requests_total",
			Help: "Total number of best-execution requests",
		},
		[]string{"status"},
	)

	OptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapopt_opt_duration_seconds",
		Help:    "Best-execution request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	PathsEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapopt_paths_evaluated",
		Help:    "Number of candidate paths evaluated per request",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})

	PathsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapopt_paths_dropped_total",
			Help: "Paths dropped during evaluation",
		},
		[]string{"reason"},
	)

	EvaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapopt_evaluate_duration_seconds",
		Help:    "Route evaluation phase duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapopt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapopt_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
