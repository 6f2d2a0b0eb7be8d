package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger_service",
		Name:      "operations_total",
		Help:      "Count of ledger operations by outcome.",
	}, []string{"operation", "outcome"})

	ledgerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger_service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	ledgerRewardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger_service",
		Name:      "rewards_total",
		Help:      "Count of upgrade rewards by level and recipient kind.",
	}, []string{"level", "recipient"})
)

// Outcomes reported by the ledger service.
const (
	OutcomeApplied   = "applied"
	OutcomeReplayed  = "replayed"
	OutcomeRejected  = "rejected"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// LedgerService tracks metrics for the ledger operations.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// ObserveOperation records an operation outcome and its duration.
func (m LedgerService) ObserveOperation(operation, outcome string, started time.Time) {
	ledgerOperationsTotal.WithLabelValues(operation, outcome).Inc()
	ledgerOperationDuration.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

// ObserveReward counts an upgrade reward, split by whether it fell back to the company.
func (m LedgerService) ObserveReward(level int, fallback bool) {
	recipient := "ancestor"
	if fallback {
		recipient = "company"
	}
	ledgerRewardsTotal.WithLabelValues(strconv.Itoa(level), recipient).Inc()
}
