package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payroll_console"

var (
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Requests to the payroll backend by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of payroll backend requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	UpgradeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upgrade_transitions_total",
		Help:      "Upgrade workflow phase transitions.",
	}, []string{"to"})

	SupersededCalculations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upgrade_calculations_superseded_total",
		Help:      "Upgrade quotes discarded because a newer request was issued.",
	})

	CheckoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_outcomes_total",
		Help:      "Checkout callbacks by kind and outcome.",
	}, []string{"kind", "outcome"})

	BotUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bot_updates_total",
		Help:      "Telegram updates handled by type.",
	}, []string{"type"})

	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Expired sessions removed by the cleanup job.",
	})
)

// Outcome — метка результата запроса к бэкенду.
func Outcome(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return "network_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "rejected"
	default:
		return "ok"
	}
}
