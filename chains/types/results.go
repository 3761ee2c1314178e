package types

import (
	"time"
)

// LoadTestResult represents the results of a load test
type LoadTestResult struct {
	RunID     string
	Kind      string
	Overall   OverallStats
	ByMessage map[MsgType]MessageStats
	Bootstrap []BootstrapTx `json:",omitempty"`
	Error     string        `json:"error,omitempty"`
}

// OverallStats represents the overall statistics of the load test
type OverallStats struct {
	TotalTransactions      int
	SuccessfulTransactions int
	FailedTransactions     int
	FirstNonce             uint64
	LastNonce              uint64
	TotalEnergy            uint64
	Runtime                time.Duration
	StartTime              time.Time
	EndTime                time.Time
	TargetTPS              float64
	TPS                    float64 `json:"TPS,omitempty"`
	SubmitLatency          LatencyStats
}

// MessageStats represents statistics for a specific message type
type MessageStats struct {
	Transactions TransactionStats
	Energy       EnergyStats
}

// TransactionStats represents transaction-related statistics
type TransactionStats struct {
	Total      int
	Successful int
	Failed     int
}

// EnergyStats are the energy budgets of the submitted transactions.
type EnergyStats struct {
	Average uint64
	Min     uint64
	Max     uint64
	Total   uint64
}

// LatencyStats summarizes the duration of submission round trips.
type LatencyStats struct {
	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P90  time.Duration
	P99  time.Duration
	Max  time.Duration
}

// BootstrapTx is a transaction sent, and awaited, while setting up a strategy.
type BootstrapTx struct {
	TxHash          string
	MsgType         MsgType
	Nonce           uint64
	EnergyCost      uint64 `json:",omitempty"`
	ContractAddress string `json:",omitempty"`
}

// BroadcastError represents errors during broadcasting transactions
type BroadcastError struct {
	TxHash  string  // Hash of the transaction that failed
	Nonce   uint64  // Nonce of the transaction that failed
	Error   string  // Error message
	MsgType MsgType // Type of message that failed
}

type MsgType string

func (m MsgType) String() string {
	return string(m)
}
