package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics counts settlement outcomes and device queue traffic.
// A nil or unregistered value is a valid no-op recorder.
type SettlementMetrics struct {
	settlements *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	commands    *prometheus.CounterVec
	topups      prometheus.Counter
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Settlement attempts by payment method and outcome code.",
	}, []string{"method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of the settlement transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "device_commands_total",
		Help: "Device command transitions by resulting state.",
	}, []string{"state"})
	topups := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallet_topups_total",
		Help: "Committed wallet top-ups.",
	})
	reg.MustRegister(settlements, duration, commands, topups)
	return &SettlementMetrics{
		settlements: settlements,
		duration:    duration,
		commands:    commands,
		topups:      topups,
	}
}

// ObserveSettlement records one settlement attempt. outcome is "success" or an error code.
func (m *SettlementMetrics) ObserveSettlement(method, outcome string, d time.Duration) {
	if m == nil || m.settlements == nil {
		return
	}
	method = normalizeLabel(method)
	m.settlements.WithLabelValues(method, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// IncCommand counts a device command reaching state (QUEUED, SENT, ACKED).
func (m *SettlementMetrics) IncCommand(state string) {
	if m == nil || m.commands == nil {
		return
	}
	m.commands.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncTopup counts a committed top-up.
func (m *SettlementMetrics) IncTopup() {
	if m == nil || m.topups == nil {
		return
	}
	m.topups.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
