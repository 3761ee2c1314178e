package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// Collector aggregates the outcome of every submission. It is safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	hist      *hdrhistogram.Histogram
	byMessage map[loadtesttypes.MsgType]loadtesttypes.MessageStats
	metrics   *Metrics

	total      int
	successes  int
	failures   int
	firstNonce types.Nonce
	lastNonce  types.Nonce
	energy     uint64
	minLatency time.Duration
	maxLatency time.Duration
	sumLatency time.Duration
	errors     []loadtesttypes.BroadcastError
}

// NewCollector returns an empty collector. m may be nil.
func NewCollector(m *Metrics) *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:      hdrhistogram.New(1, 60_000_000, 3),
		byMessage: make(map[loadtesttypes.MsgType]loadtesttypes.MessageStats),
		metrics:   m,
	}
}

// RecordSubmission records the outcome of one submission.
func (c *Collector) RecordSubmission(tx types.SentTx) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tx.Latency > 0 {
		us := tx.Latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += tx.Latency
	if c.minLatency == 0 || tx.Latency < c.minLatency {
		c.minLatency = tx.Latency
	}
	if tx.Latency > c.maxLatency {
		c.maxLatency = tx.Latency
	}

	if c.total == 0 {
		c.firstNonce = tx.Nonce
	}
	c.total++
	c.lastNonce = tx.Nonce

	stat := c.byMessage[tx.MsgType]
	stat.Transactions.Total++
	if tx.Err != nil {
		c.failures++
		stat.Transactions.Failed++
		c.errors = append(c.errors, loadtesttypes.BroadcastError{
			TxHash:  tx.TxHash.String(),
			Nonce:   uint64(tx.Nonce),
			Error:   tx.Err.Error(),
			MsgType: tx.MsgType,
		})
	} else {
		c.successes++
		stat.Transactions.Successful++
		energy := uint64(tx.Energy)
		c.energy += energy
		if stat.Energy.Min == 0 || energy < stat.Energy.Min {
			stat.Energy.Min = energy
		}
		if energy > stat.Energy.Max {
			stat.Energy.Max = energy
		}
		stat.Energy.Total += energy
		stat.Energy.Average = stat.Energy.Total / uint64(stat.Transactions.Successful) //nolint:gosec // G115: counts are positive
	}
	c.byMessage[tx.MsgType] = stat

	if c.metrics != nil {
		label := tx.MsgType.String()
		if tx.Err != nil {
			c.metrics.BroadcastFailure.WithLabelValues(label).Inc()
		} else {
			c.metrics.BroadcastSuccess.WithLabelValues(label).Inc()
			c.metrics.EnergySubmitted.Add(float64(tx.Energy))
		}
		c.metrics.BroadcastLatency.Observe(float64(tx.Latency) / float64(time.Millisecond))
	}
}

// RecordGenerationFailure counts a transaction that could not be built.
func (c *Collector) RecordGenerationFailure() {
	if c.metrics != nil {
		c.metrics.GenerationFailure.Inc()
	}
}

// RecordBootstrap counts the transactions sent while setting up the strategy.
func (c *Collector) RecordBootstrap(txs []loadtesttypes.BootstrapTx) {
	if c.metrics != nil {
		c.metrics.BootstrapTxs.Add(float64(len(txs)))
	}
}

// Total returns the number of recorded submissions.
func (c *Collector) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Errors returns the failed submissions.
func (c *Collector) Errors() []loadtesttypes.BroadcastError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]loadtesttypes.BroadcastError(nil), c.errors...)
}

// Overall computes the run wide statistics for a run between start and end.
func (c *Collector) Overall(start, end time.Time, targetTPS float64) loadtesttypes.OverallStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	runtime := end.Sub(start)
	stats := loadtesttypes.OverallStats{
		TotalTransactions:      c.total,
		SuccessfulTransactions: c.successes,
		FailedTransactions:     c.failures,
		FirstNonce:             uint64(c.firstNonce),
		LastNonce:              uint64(c.lastNonce),
		TotalEnergy:            c.energy,
		Runtime:                runtime,
		StartTime:              start,
		EndTime:                end,
		TargetTPS:              targetTPS,
		SubmitLatency: loadtesttypes.LatencyStats{
			Min: c.minLatency,
			Max: c.maxLatency,
		},
	}
	if c.total > 0 {
		stats.SubmitLatency.Mean = time.Duration(int64(c.sumLatency) / int64(c.total))
	}
	if c.hist.TotalCount() > 0 {
		stats.SubmitLatency.P50 = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.SubmitLatency.P90 = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.SubmitLatency.P99 = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}
	if runtime > 0 && c.total > 0 {
		stats.TPS = float64(c.total) / runtime.Seconds()
	}
	return stats
}

// ByMessage returns the statistics per message type.
func (c *Collector) ByMessage() map[loadtesttypes.MsgType]loadtesttypes.MessageStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[loadtesttypes.MsgType]loadtesttypes.MessageStats, len(c.byMessage))
	for k, v := range c.byMessage {
		out[k] = v
	}
	return out
}
