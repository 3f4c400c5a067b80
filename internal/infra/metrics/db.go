package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolStats, storageErrors) }

var dbPoolStats = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "db_pool_stats",
		Help: "Current state of the database connection pool.",
	},
	[]string{"state"}, // 'total', 'idle', 'in_use'
)

var storageErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storage_errors_total",
		Help: "Count of failed reads/writes against the user state store.",
	},
	[]string{"op"},
)

func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolStats.WithLabelValues("total").Set(float64(total))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}

func IncStorageError(op string) { storageErrors.WithLabelValues(op).Inc() }
