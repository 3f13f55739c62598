// Package metrics provides process-level counters for the mint client.
// Counters are atomic so the poller goroutine, the mint workflow, and the
// RPC backend can record concurrently.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Mint workflow metrics
	mintAttempts  atomic.Int64
	mintSucceeded atomic.Int64
	mintFailed    atomic.Int64

	// Supply poller metrics
	pollTicks    atomic.Int64
	pollFailures atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records an RPC call with its duration and outcome.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordMintStarted records the start of a mint attempt.
func (m *Metrics) RecordMintStarted() {
	m.mintAttempts.Add(1)
}

// RecordMintFinished records the outcome of a mint attempt.
func (m *Metrics) RecordMintFinished(err error) {
	if err != nil {
		m.mintFailed.Add(1)
		return
	}
	m.mintSucceeded.Add(1)
}

// RecordPollTick records one supply poll and whether it failed.
func (m *Metrics) RecordPollTick(err error) {
	m.pollTicks.Add(1)
	if err != nil {
		m.pollFailures.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal   int64 `json:"rpc_calls_total"`
	RPCErrorsTotal  int64 `json:"rpc_errors_total"`
	RPCLatencyNanos int64 `json:"rpc_latency_nanos"`
	MintAttempts    int64 `json:"mint_attempts"`
	MintSucceeded   int64 `json:"mint_succeeded"`
	MintFailed      int64 `json:"mint_failed"`
	PollTicks       int64 `json:"poll_ticks"`
	PollFailures    int64 `json:"poll_failures"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCLatencyNanos: m.rpcLatencyNanos.Load(),
		MintAttempts:    m.mintAttempts.Load(),
		MintSucceeded:   m.mintSucceeded.Load(),
		MintFailed:      m.mintFailed.Load(),
		PollTicks:       m.pollTicks.Load(),
		PollFailures:    m.pollFailures.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.mintAttempts.Store(0)
	m.mintSucceeded.Store(0)
	m.mintFailed.Store(0)
	m.pollTicks.Store(0)
	m.pollFailures.Store(0)
}
