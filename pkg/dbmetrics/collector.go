package dbmetrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCollectInterval период сбора статистики пула соединений
const DefaultCollectInterval = 15 * time.Second

// PoolGauges метрики пула соединений
type PoolGauges struct {
	OpenConnections *prometheus.GaugeVec
	InUse           *prometheus.GaugeVec
	Idle            *prometheus.GaugeVec
	WaitCount       *prometheus.GaugeVec
}

// NewPoolGauges создает и регистрирует метрики пула соединений
func NewPoolGauges(reg prometheus.Registerer, namespace string) *PoolGauges {
	g := &PoolGauges{
		OpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Number of established connections to the database",
		}, []string{"service"}),
		InUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use",
		}, []string{"service"}),
		Idle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections",
		}, []string{"service"}),
		WaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),
	}
	reg.MustRegister(g.OpenConnections, g.InUse, g.Idle, g.WaitCount)
	return g
}

// Observe записывает текущее состояние пула
func (g *PoolGauges) Observe(service string, stats sql.DBStats) {
	g.OpenConnections.WithLabelValues(service).Set(float64(stats.OpenConnections))
	g.InUse.WithLabelValues(service).Set(float64(stats.InUse))
	g.Idle.WithLabelValues(service).Set(float64(stats.Idle))
	g.WaitCount.WithLabelValues(service).Set(float64(stats.WaitCount))
}

// CollectPoolStats периодически снимает db.Stats() до закрытия stopCh
func CollectPoolStats(db *sql.DB, gauges *PoolGauges, service string, interval time.Duration, stopCh <-chan struct{}) {
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		gauges.Observe(service, db.Stats())
		for {
			select {
			case <-ticker.C:
				gauges.Observe(service, db.Stats())
			case <-stopCh:
				return
			}
		}
	}()
}
