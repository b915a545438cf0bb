package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the sequencer MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// Initialize creates the global sequencer record
func (ms msgServer) Initialize(goCtx context.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	// Validate message
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Initialize: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("Initialize: invalid admin address: %w", err)
	}

	if err := ms.Keeper.Initialize(goCtx, admin, msg.MaxRelayers); err != nil {
		return nil, fmt.Errorf("Initialize: %w", err)
	}

	return &types.MsgInitializeResponse{}, nil
}

// SetPause toggles the emergency pause
func (ms msgServer) SetPause(goCtx context.Context, msg *types.MsgSetPause) (*types.MsgSetPauseResponse, error) {
	// Validate message
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetPause: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("SetPause: invalid admin address: %w", err)
	}

	if err := ms.Keeper.SetPause(goCtx, admin, msg.Paused); err != nil {
		return nil, fmt.Errorf("SetPause: %w", err)
	}

	return &types.MsgSetPauseResponse{}, nil
}

// AddRelayer authorizes an executor
func (ms msgServer) AddRelayer(goCtx context.Context, msg *types.MsgAddRelayer) (*types.MsgAddRelayerResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddRelayer: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("AddRelayer: invalid admin address: %w", err)
	}

	relayer, err := sdk.AccAddressFromBech32(msg.Relayer)
	if err != nil {
		return nil, fmt.Errorf("AddRelayer: invalid relayer address: %w", err)
	}

	if err := ms.Keeper.AddRelayer(goCtx, admin, relayer); err != nil {
		return nil, fmt.Errorf("AddRelayer: %w", err)
	}

	return &types.MsgAddRelayerResponse{}, nil
}

// RemoveRelayer revokes an executor
func (ms msgServer) RemoveRelayer(goCtx context.Context, msg *types.MsgRemoveRelayer) (*types.MsgRemoveRelayerResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveRelayer: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("RemoveRelayer: invalid admin address: %w", err)
	}

	relayer, err := sdk.AccAddressFromBech32(msg.Relayer)
	if err != nil {
		return nil, fmt.Errorf("RemoveRelayer: invalid relayer address: %w", err)
	}

	if err := ms.Keeper.RemoveRelayer(goCtx, admin, relayer); err != nil {
		return nil, fmt.Errorf("RemoveRelayer: %w", err)
	}

	return &types.MsgRemoveRelayerResponse{}, nil
}

// UpdateParams replaces the module parameters
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateParams: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("UpdateParams: invalid admin address: %w", err)
	}

	if err := ms.Keeper.UpdateParams(goCtx, admin, msg.Params); err != nil {
		return nil, fmt.Errorf("UpdateParams: %w", err)
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

// RegisterPool creates a pool on the engine under its delegated authority
func (ms msgServer) RegisterPool(goCtx context.Context, msg *types.MsgRegisterPool) (*types.MsgRegisterPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RegisterPool: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("RegisterPool: invalid admin address: %w", err)
	}

	pool, err := ms.Keeper.RegisterPool(goCtx, admin, msg.PoolID, msg.Asset0, msg.Asset1, msg.InitParams, msg.PassThrough)
	if err != nil {
		return nil, fmt.Errorf("RegisterPool: %w", err)
	}

	return &types.MsgRegisterPoolResponse{
		DelegatedAuthority: pool.DelegatedAuthority,
	}, nil
}

// SetPoolActive activates or deactivates a pool
func (ms msgServer) SetPoolActive(goCtx context.Context, msg *types.MsgSetPoolActive) (*types.MsgSetPoolActiveResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetPoolActive: validate: %w", err)
	}

	admin, err := sdk.AccAddressFromBech32(msg.Admin)
	if err != nil {
		return nil, fmt.Errorf("SetPoolActive: invalid admin address: %w", err)
	}

	if err := ms.Keeper.SetPoolActive(goCtx, admin, msg.PoolID, msg.Active); err != nil {
		return nil, fmt.Errorf("SetPoolActive: %w", err)
	}

	return &types.MsgSetPoolActiveResponse{}, nil
}

// SubmitOrder queues a durable order
func (ms msgServer) SubmitOrder(goCtx context.Context, msg *types.MsgSubmitOrder) (*types.MsgSubmitOrderResponse, error) {
	// Validate message
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SubmitOrder: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("SubmitOrder: invalid owner address: %w", err)
	}

	order, err := ms.Keeper.SubmitOrder(goCtx, owner, msg.PoolID, msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput, msg.SourceAsset)
	if err != nil {
		return nil, fmt.Errorf("SubmitOrder: %w", err)
	}

	return &types.MsgSubmitOrderResponse{
		Sequence: order.Sequence,
	}, nil
}

// SubmitOrderLite sequences an order without storing it
func (ms msgServer) SubmitOrderLite(goCtx context.Context, msg *types.MsgSubmitOrderLite) (*types.MsgSubmitOrderLiteResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SubmitOrderLite: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("SubmitOrderLite: invalid owner address: %w", err)
	}

	seq, err := ms.Keeper.SubmitOrderLite(goCtx, owner, msg.PoolID, msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput, msg.SourceAsset)
	if err != nil {
		return nil, fmt.Errorf("SubmitOrderLite: %w", err)
	}

	return &types.MsgSubmitOrderLiteResponse{
		Sequence: seq,
	}, nil
}

// ExecuteOrder forwards the head of a pool's queue
func (ms msgServer) ExecuteOrder(goCtx context.Context, msg *types.MsgExecuteOrder) (*types.MsgExecuteOrderResponse, error) {
	// Validate message
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ExecuteOrder: validate: %w", err)
	}

	executor, err := sdk.AccAddressFromBech32(msg.Executor)
	if err != nil {
		return nil, fmt.Errorf("ExecuteOrder: invalid executor address: %w", err)
	}

	order, err := ms.Keeper.ExecuteOrder(goCtx, executor, msg.PoolID, msg.ExpectedSequence, msg.PassThrough)
	if err != nil {
		return nil, fmt.Errorf("ExecuteOrder: %w", err)
	}

	return &types.MsgExecuteOrderResponse{
		AmountOut: order.AmountOut,
	}, nil
}

// CancelOrder withdraws a pending order
func (ms msgServer) CancelOrder(goCtx context.Context, msg *types.MsgCancelOrder) (*types.MsgCancelOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelOrder: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("CancelOrder: invalid owner address: %w", err)
	}

	if _, err := ms.Keeper.CancelOrder(goCtx, owner, msg.Sequence); err != nil {
		return nil, fmt.Errorf("CancelOrder: %w", err)
	}

	return &types.MsgCancelOrderResponse{}, nil
}

// FailOrder retires an order the engine rejects
func (ms msgServer) FailOrder(goCtx context.Context, msg *types.MsgFailOrder) (*types.MsgFailOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("FailOrder: validate: %w", err)
	}

	executor, err := sdk.AccAddressFromBech32(msg.Executor)
	if err != nil {
		return nil, fmt.Errorf("FailOrder: invalid executor address: %w", err)
	}

	if _, err := ms.Keeper.FailOrder(goCtx, executor, msg.Sequence, msg.Reason); err != nil {
		return nil, fmt.Errorf("FailOrder: %w", err)
	}

	return &types.MsgFailOrderResponse{}, nil
}

// SwapImmediate sequences and executes a swap in one step
func (ms msgServer) SwapImmediate(goCtx context.Context, msg *types.MsgSwapImmediate) (*types.MsgSwapImmediateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapImmediate: validate: %w", err)
	}

	relayer, err := sdk.AccAddressFromBech32(msg.Relayer)
	if err != nil {
		return nil, fmt.Errorf("SwapImmediate: invalid relayer address: %w", err)
	}

	res, err := ms.Keeper.SwapImmediate(goCtx, relayer, msg.PoolID, msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput, msg.PassThrough)
	if err != nil {
		return nil, fmt.Errorf("SwapImmediate: %w", err)
	}

	return &types.MsgSwapImmediateResponse{
		Sequence:  res.Sequence,
		AmountOut: res.AmountOut,
	}, nil
}
