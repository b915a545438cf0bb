package types

import (
	"context"
)

// QueryServer defines the read-only surface of the sequencer module
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	State(context.Context, *QueryStateRequest) (*QueryStateResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	Order(context.Context, *QueryOrderRequest) (*QueryOrderResponse, error)
	OrdersByOwner(context.Context, *QueryOrdersByOwnerRequest) (*QueryOrdersByOwnerResponse, error)
	PendingOrders(context.Context, *QueryPendingOrdersRequest) (*QueryPendingOrdersResponse, error)
	QueueHead(context.Context, *QueryQueueHeadRequest) (*QueryQueueHeadResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryStateRequest struct{}

type QueryStateResponse struct {
	State SequencerState `json:"state"`
}

type QueryPoolRequest struct {
	PoolID string `json:"pool_id"`
}

type QueryPoolResponse struct {
	Pool PoolRegistration `json:"pool"`
}

type QueryPoolsRequest struct{}

type QueryPoolsResponse struct {
	Pools []PoolRegistration `json:"pools"`
}

type QueryOrderRequest struct {
	Sequence uint64 `json:"sequence"`
}

type QueryOrderResponse struct {
	Order Order `json:"order"`
}

type QueryOrdersByOwnerRequest struct {
	Owner string `json:"owner"`
}

type QueryOrdersByOwnerResponse struct {
	Orders []Order `json:"orders"`
}

// QueryPendingOrdersRequest lists pending orders in global sequence order.
// A zero Limit returns up to DefaultPendingQueryLimit orders.
type QueryPendingOrdersRequest struct {
	Limit uint32 `json:"limit"`
}

type QueryPendingOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type QueryQueueHeadRequest struct {
	PoolID string `json:"pool_id"`
}

// QueryQueueHeadResponse carries the next order a relayer should execute for
// the pool. Found is false when the pool's queue is empty.
type QueryQueueHeadResponse struct {
	Order Order `json:"order"`
	Found bool  `json:"found"`
}

// Pending order query limits
const (
	DefaultPendingQueryLimit = 100
	MaxPendingQueryLimit     = 1000
)
