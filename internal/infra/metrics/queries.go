package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(queryDurationMs, queriesTotal) }

var (
	queryDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_ms",
			Help:    "Aggregation query latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"query", "success"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_queries_total",
			Help: "Count of aggregation queries by family and outcome.",
		},
		[]string{"query", "success"},
	)
)

// ObserveQuery records one query execution for the named query family.
func ObserveQuery(query string, elapsed time.Duration, err error) {
	success := strconv.FormatBool(err == nil)
	queryDurationMs.WithLabelValues(norm(query), success).Observe(float64(elapsed.Milliseconds()))
	queriesTotal.WithLabelValues(norm(query), success).Inc()
}
