package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "settlement_gateway",
		Name:      "operations_total",
		Help:      "Count of settlement gateway calls.",
	}, []string{"operation", "network", "status"})
	settlementRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "settlement_gateway",
		Name:      "operation_duration_seconds",
		Help:      "Duration of settlement gateway calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// SettlementGateway tracks metrics for calls to the external settlement ledger.
type SettlementGateway struct {
	network string
}

// NewSettlementGateway constructs a metrics collector for gateway calls.
func NewSettlementGateway(network string) *SettlementGateway {
	if network == "" {
		network = "unknown"
	}
	return &SettlementGateway{network: network}
}

// Observe records a single gateway call outcome and duration.
func (m SettlementGateway) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	settlementRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	settlementRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
