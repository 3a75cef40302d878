package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(analyticsPoolConns) }

var analyticsPoolConns = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "analytics_db_pool_connections",
		Help: "Connection pool state of the analytics database.",
	},
	[]string{"state"}, // 'total', 'idle', 'in_use'
)

func SetDBPoolStats(total, idle, inUse int32) {
	analyticsPoolConns.WithLabelValues("total").Set(float64(total))
	analyticsPoolConns.WithLabelValues("idle").Set(float64(idle))
	analyticsPoolConns.WithLabelValues("in_use").Set(float64(inUse))
}
