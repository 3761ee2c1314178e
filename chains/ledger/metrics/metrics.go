package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PromNamespace      = "txgen"
	TxMetricsNamespace = "tx_metrics"
)

const msgTypeLabel = "msg_type"

type Metrics struct {
	BroadcastSuccess  *prometheus.CounterVec
	BroadcastFailure  *prometheus.CounterVec
	GenerationFailure prometheus.Counter
	BroadcastLatency  prometheus.Histogram
	EnergySubmitted   prometheus.Counter
	BootstrapTxs      prometheus.Counter
}

// NewMetrics registers the load test metrics with reg, or with the default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		BroadcastSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "broadcast_success",
			Help:      "Number of transactions accepted by the node.",
		}, []string{msgTypeLabel}),
		BroadcastFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "broadcast_failure",
			Help:      "Number of failed tx broadcasts.",
		}, []string{msgTypeLabel}),
		GenerationFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "generation_failure",
			Help:      "Number of transactions that could not be built.",
		}),
		BroadcastLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "broadcast_latency_ms",
			Help:      "Histogram of the round trip of a submission, in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		EnergySubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "energy_submitted",
			Help:      "Total energy budget of the accepted transactions.",
		}),
		BootstrapTxs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: PromNamespace,
			Subsystem: TxMetricsNamespace,
			Name:      "bootstrap_txs",
			Help:      "Number of transactions sent while setting up the strategy.",
		}),
	}
	reg.MustRegister(m.BroadcastSuccess, m.BroadcastFailure, m.GenerationFailure, m.BroadcastLatency,
		m.EnergySubmitted, m.BootstrapTxs)
	return m
}
