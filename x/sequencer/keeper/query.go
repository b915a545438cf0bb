package keeper

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

var _ types.QueryServer = Keeper{}

// Params returns the module parameters
func (k Keeper) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	return &types.QueryParamsResponse{
		Params: k.GetParams(goCtx),
	}, nil
}

// State returns the global sequencer record
func (k Keeper) State(goCtx context.Context, req *types.QueryStateRequest) (*types.QueryStateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	state, err := k.GetSequencerState(goCtx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryStateResponse{State: state}, nil
}

// Pool queries a pool registration by ID
func (k Keeper) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if err := types.ValidatePoolID(req.PoolID); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pool, err := k.GetPoolRegistration(goCtx, req.PoolID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryPoolResponse{Pool: pool}, nil
}

// Pools queries all pool registrations
func (k Keeper) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	pools, err := k.GetAllPoolRegistrations(goCtx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryPoolsResponse{Pools: pools}, nil
}

// Order queries a durable order by sequence
func (k Keeper) Order(goCtx context.Context, req *types.QueryOrderRequest) (*types.QueryOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if req.Sequence == 0 {
		return nil, status.Error(codes.InvalidArgument, "sequence cannot be zero")
	}

	order, err := k.GetOrderBySequence(goCtx, req.Sequence)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryOrderResponse{Order: order}, nil
}

// OrdersByOwner queries every durable order of an owner
func (k Keeper) OrdersByOwner(goCtx context.Context, req *types.QueryOrdersByOwnerRequest) (*types.QueryOrdersByOwnerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid owner address: %v", err)
	}

	orders, err := k.GetOrdersByOwner(goCtx, owner)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryOrdersByOwnerResponse{Orders: orders}, nil
}

// PendingOrders lists pending orders in global sequence order
func (k Keeper) PendingOrders(goCtx context.Context, req *types.QueryPendingOrdersRequest) (*types.QueryPendingOrdersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	limit := int(req.Limit)
	if limit == 0 {
		limit = types.DefaultPendingQueryLimit
	}
	if limit > types.MaxPendingQueryLimit {
		limit = types.MaxPendingQueryLimit
	}

	orders, err := k.GetPendingOrders(goCtx, limit)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryPendingOrdersResponse{Orders: orders}, nil
}

// QueueHead returns the next order to execute for a pool
func (k Keeper) QueueHead(goCtx context.Context, req *types.QueryQueueHeadRequest) (*types.QueryQueueHeadResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if err := types.ValidatePoolID(req.PoolID); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	order, found, err := k.PoolQueueHead(goCtx, req.PoolID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryQueueHeadResponse{Order: order, Found: found}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrOrderNotFound),
		errors.Is(err, types.ErrPoolNotRegistered),
		errors.Is(err, types.ErrNotInitialized):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
