package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the realtime hub's instrumentation.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	BroadcastsTotal   prometheus.Counter
	DroppedSends      prometheus.Counter
}

// New registers the hub metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pomodoro_ws_active_connections",
			Help: "Number of currently registered websocket connections.",
		}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pomodoro_ws_broadcasts_total",
			Help: "Number of state snapshots broadcast to rooms.",
		}),
		DroppedSends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pomodoro_ws_dropped_sends_total",
			Help: "Number of sends skipped because a connection was closed or backed up.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.BroadcastsTotal, m.DroppedSends)
	return m
}
