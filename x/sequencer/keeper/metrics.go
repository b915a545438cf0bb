package keeper

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// SequencerMetrics holds all Prometheus metrics for the sequencer module
type SequencerMetrics struct {
	// Order lifecycle
	OrdersSubmitted *prometheus.CounterVec
	OrdersFinalized *prometheus.CounterVec
	PendingOrders   prometheus.Gauge
	ImmediateSwaps  prometheus.Counter

	// Execution
	ExecutionFailures *prometheus.CounterVec
	ForwardedCalls    *prometheus.CounterVec
	ForwardLatency    *prometheus.HistogramVec

	// Pools
	PoolsRegistered prometheus.Counter
}

var (
	sequencerMetricsOnce sync.Once
	sequencerMetrics     *SequencerMetrics
)

// NewSequencerMetrics creates and registers sequencer metrics (singleton pattern)
func NewSequencerMetrics() *SequencerMetrics {
	sequencerMetricsOnce.Do(func() {
		sequencerMetrics = &SequencerMetrics{
			OrdersSubmitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "orders_submitted_total",
					Help:      "Total number of orders accepted into the sequence",
				},
				[]string{"mode"},
			),
			OrdersFinalized: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "orders_finalized_total",
					Help:      "Total number of durable orders that reached a terminal status",
				},
				[]string{"status"},
			),
			PendingOrders: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "pending_orders",
					Help:      "Durable orders observed as pending by this process",
				},
			),
			ImmediateSwaps: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "immediate_swaps_total",
					Help:      "Total number of swaps executed without queueing",
				},
			),
			ExecutionFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "execution_failures_total",
					Help:      "Rejected execution attempts by reason",
				},
				[]string{"reason"},
			),
			ForwardedCalls: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "forwarded_calls_total",
					Help:      "Calls forwarded to the AMM engine",
				},
				[]string{"op", "status"},
			),
			ForwardLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "forward_latency_seconds",
					Help:      "Latency of forwarded AMM calls in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			PoolsRegistered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "continuum",
					Subsystem: "sequencer",
					Name:      "pools_registered_total",
					Help:      "Total number of pools registered",
				},
			),
		}
	})
	return sequencerMetrics
}

var failureReasons = []struct {
	err   error
	label string
}{
	{types.ErrInvalidSequence, "invalid_sequence"},
	{types.ErrInvalidOrderStatus, "invalid_status"},
	{types.ErrOrderNotFound, "not_found"},
	{types.ErrUnauthorized, "unauthorized"},
	{types.ErrPoolNotRegistered, "pool_not_registered"},
	{types.ErrEmergencyPause, "paused"},
	{types.ErrSlippageExceeded, "slippage"},
	{types.ErrForwardedCallFailed, "forward_failed"},
	{types.ErrInvalidPassThrough, "invalid_pass_through"},
	{types.ErrStateConflict, "state_conflict"},
}

// errorLabel maps err to a bounded metric label.
func errorLabel(err error) string {
	for _, r := range failureReasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "other"
}
