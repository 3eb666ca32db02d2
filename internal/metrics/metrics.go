// Package metrics defines the Prometheus metrics exported by the bill
// splitter. It is the single source of truth for metric names, labels, and
// help strings; everything registers with the default registry via promauto
// at package init, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billsplit"

// RPCsTotal counts completed RPCs.
// Labels:
//   - procedure: the full Connect procedure name
//   - code: the Connect error code, or "ok"
var RPCsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpcs_total",
		Help:      "Total number of RPCs handled, labelled by procedure and result code.",
	},
	[]string{"procedure", "code"},
)

// RPCDuration observes wall-clock RPC latency in seconds.
var RPCDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency in seconds, labelled by procedure.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"procedure"},
)

// ExpensesCreatedTotal counts expenses accepted into a ledger.
// Label:
//   - rule: the split rule ("equal" or "custom")
var ExpensesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of expenses created, labelled by split rule.",
	},
	[]string{"rule"},
)

// SettlementTransfers observes how many transfers each computed settlement
// plan contains.
var SettlementTransfers = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_transfers",
		Help:      "Number of transfers per computed settlement plan.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	},
)
