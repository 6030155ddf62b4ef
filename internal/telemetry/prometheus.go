package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebot_turns_total",
			Help: "Conversation turns by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebot_tool_executions_total",
			Help: "Lookup executions by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebot_provider_request_duration_seconds",
			Help:    "Movie metadata provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviebot_active_sessions",
			Help: "Number of open sessions",
		},
	)
)

// ObserveProviderRequest records one provider round trip.
func ObserveProviderRequest(op, status string, d time.Duration) {
	ProviderLatency.WithLabelValues(op, status).Observe(d.Seconds())
}
