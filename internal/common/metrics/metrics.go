// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_invocations_completed_total",
			Help: "Total number of command invocations that returned a result",
		},
		[]string{"command"},
	)

	CommandsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_invocations_failed_total",
			Help: "Total number of command invocations that returned an error",
		},
		[]string{"command", "error_code"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of command invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	CommandsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "commands_active",
			Help: "Number of in-flight invocations per command",
		},
		[]string{"command"},
	)
)
