// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepsTotal counts scheduler sweeps by result.
	SweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_sweeps_total",
		Help: "Total due-alert sweeps by result",
	}, []string{"result"})

	// SweepDuration tracks how long a sweep takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alerts_sweep_duration_seconds",
		Help:    "Due-alert sweep duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// DueAlerts is the size of the due set at the last sweep.
	DueAlerts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alerts_due",
		Help: "Number of due alerts at the last sweep",
	})

	// SnoozesReleased counts elapsed snoozes returned to ACTIVE.
	SnoozesReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alerts_snoozes_released_total",
		Help: "Total elapsed snoozes returned to ACTIVE",
	})

	// NoticesRaised counts in-app notices by result.
	NoticesRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_notices_total",
		Help: "Total in-app notices by result",
	}, []string{"result"})

	// Transitions counts lifecycle operations by action and result.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_transitions_total",
		Help: "Total alert lifecycle operations by action and result",
	}, []string{"action", "result"})
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)
