package keeper

import (
	"context"
	"encoding/json"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// ============================================================================
// Order storage
// ============================================================================

// setOrder stores an order and keeps the sequence and pending indexes in step
// with its status.
func (k Keeper) setOrder(ctx context.Context, order types.Order) error {
	owner, err := sdk.AccAddressFromBech32(order.Owner)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("order owner: %v", err)
	}
	bz, err := json.Marshal(order)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal order %d: %v", order.Sequence, err)
	}

	store := k.getStore(ctx)
	store.Set(types.OrderKey(owner, order.Sequence), bz)
	store.Set(types.OrderBySequenceKey(order.Sequence), owner.Bytes())

	wasPending := store.Has(types.PendingOrderKey(order.Sequence))
	switch {
	case order.Status == types.OrderStatusPending:
		store.Set(types.PendingOrderKey(order.Sequence), []byte{1})
		store.Set(types.PoolQueueKey(order.PoolID, order.Sequence), []byte{1})
		if !wasPending {
			k.setPendingOrderCount(ctx, k.PendingOrderCount(ctx)+1)
		}
	default:
		store.Delete(types.PendingOrderKey(order.Sequence))
		store.Delete(types.PoolQueueKey(order.PoolID, order.Sequence))
		if wasPending {
			k.setPendingOrderCount(ctx, k.PendingOrderCount(ctx)-1)
		}
	}
	return nil
}

// PendingOrderCount returns the size of the pending index.
func (k Keeper) PendingOrderCount(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PendingCountKey)
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

func (k Keeper) setPendingOrderCount(ctx context.Context, n uint64) {
	k.getStore(ctx).Set(types.PendingCountKey, sdk.Uint64ToBigEndian(n))
}

// syncPendingGauge sets the pending gauge from the stored count, so it is
// correct after a restart.
func (k Keeper) syncPendingGauge(ctx context.Context) {
	k.metrics.PendingOrders.Set(float64(k.PendingOrderCount(ctx)))
}

// GetOrder returns the order stored under (owner, sequence).
func (k Keeper) GetOrder(ctx context.Context, owner sdk.AccAddress, sequence uint64) (types.Order, error) {
	bz := k.getStore(ctx).Get(types.OrderKey(owner, sequence))
	if bz == nil {
		return types.Order{}, types.ErrOrderNotFound.Wrapf("order %d of %s", sequence, owner)
	}
	var order types.Order
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.Order{}, types.ErrInvalidState.Wrapf("failed to unmarshal order %d: %v", sequence, err)
	}
	return order, nil
}

// GetOrderBySequence resolves the owner through the sequence index.
func (k Keeper) GetOrderBySequence(ctx context.Context, sequence uint64) (types.Order, error) {
	owner := k.getStore(ctx).Get(types.OrderBySequenceKey(sequence))
	if owner == nil {
		return types.Order{}, types.ErrOrderNotFound.Wrapf("order %d", sequence)
	}
	return k.GetOrder(ctx, sdk.AccAddress(owner), sequence)
}

// GetOrdersByOwner returns the owner's orders in sequence order.
func (k Keeper) GetOrdersByOwner(ctx context.Context, owner sdk.AccAddress) ([]types.Order, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OrdersByOwnerPrefix(owner))
	defer iterator.Close()

	var orders []types.Order
	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal order: %v", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// GetPendingOrders returns up to limit pending orders in global FIFO order.
// A limit of 0 returns all of them.
func (k Keeper) GetPendingOrders(ctx context.Context, limit int) ([]types.Order, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PendingOrderKeyPrefix)
	defer iterator.Close()

	var orders []types.Order
	for ; iterator.Valid(); iterator.Next() {
		if limit > 0 && len(orders) >= limit {
			break
		}
		seq := sdk.BigEndianToUint64(iterator.Key()[len(types.PendingOrderKeyPrefix):])
		order, err := k.GetOrderBySequence(ctx, seq)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// GetAllOrders returns every durable order in sequence order.
func (k Keeper) GetAllOrders(ctx context.Context) ([]types.Order, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OrderBySequenceKeyPrefix)
	defer iterator.Close()

	var orders []types.Order
	for ; iterator.Valid(); iterator.Next() {
		seq := sdk.BigEndianToUint64(iterator.Key()[len(types.OrderBySequenceKeyPrefix):])
		order, err := k.GetOrder(ctx, sdk.AccAddress(iterator.Value()), seq)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// PoolQueueHead returns the oldest pending order of poolID.
func (k Keeper) PoolQueueHead(ctx context.Context, poolID string) (types.Order, bool, error) {
	prefix := types.PoolQueuePrefix(poolID)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	if !iterator.Valid() {
		return types.Order{}, false, nil
	}
	seq := sdk.BigEndianToUint64(iterator.Key()[len(prefix):])
	order, err := k.GetOrderBySequence(ctx, seq)
	if err != nil {
		return types.Order{}, false, err
	}
	return order, true, nil
}

// ============================================================================
// Submission
// ============================================================================

// submission is a validated request to queue an order.
type submission struct {
	owner            sdk.AccAddress
	poolID           string
	amountIn         uint64
	minAmountOut     uint64
	isBaseInput      bool
	sourceAsset      string
	destinationAsset string
}

// admitSubmission checks the submission preconditions and advances the
// global counter, returning the assigned sequence.
func (k Keeper) admitSubmission(ctx sdk.Context, sub *submission) (uint64, error) {
	if err := types.ValidateSwapAmounts(sub.amountIn, sub.minAmountOut, sub.isBaseInput); err != nil {
		return 0, err
	}

	state, err := k.GetSequencerState(ctx)
	if err != nil {
		return 0, err
	}
	if err := requireNotPaused(state); err != nil {
		return 0, err
	}
	pool, err := k.getActivePool(ctx, sub.poolID)
	if err != nil {
		return 0, err
	}
	dst, ok := pool.OtherAsset(sub.sourceAsset)
	if !ok {
		return 0, types.ErrInvalidPoolConfig.Wrapf("%s is not an asset of pool %s", sub.sourceAsset, pool.PoolID)
	}
	sub.destinationAsset = dst

	next, err := k.updateSequencerState(ctx, func(s *types.SequencerState) error {
		s.CurrentSequence++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next.CurrentSequence, nil
}

func emitOrderSubmitted(ctx sdk.Context, seq uint64, sub submission, mode string) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(seq, 10)),
		sdk.NewAttribute(types.AttributeKeyOwner, sub.owner.String()),
		sdk.NewAttribute(types.AttributeKeyPoolID, sub.poolID),
		sdk.NewAttribute(types.AttributeKeyAmountIn, strconv.FormatUint(sub.amountIn, 10)),
		sdk.NewAttribute(types.AttributeKeyIsBaseInput, strconv.FormatBool(sub.isBaseInput)),
		sdk.NewAttribute(types.AttributeKeyMode, mode),
		sdk.NewAttribute(types.AttributeKeySourceAsset, sub.sourceAsset),
		sdk.NewAttribute(types.AttributeKeyDestinationAsset, sub.destinationAsset),
	}
	if mode == types.SubmissionModeLite {
		// Nothing is stored on chain, so observers need the full parameters.
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyMinAmountOut, strconv.FormatUint(sub.minAmountOut, 10)))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeOrderSubmitted, attrs...))
}

// SubmitOrder queues a durable order under (owner, sequence).
//
// Preconditions: the sequencer is not paused and the pool is registered and
// active. sourceAsset selects the input asset; the destination is the pool's
// other asset. isBaseInput selects whether amountIn is the input amount or
// the exact output wanted.
func (k Keeper) SubmitOrder(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID string,
	amountIn, minAmountOut uint64,
	isBaseInput bool,
	sourceAsset string,
) (types.Order, error) {
	sub := submission{
		owner:        owner,
		poolID:       poolID,
		amountIn:     amountIn,
		minAmountOut: minAmountOut,
		isBaseInput:  isBaseInput,
		sourceAsset:  sourceAsset,
	}

	var order types.Order
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		seq, err := k.admitSubmission(ctx, &sub)
		if err != nil {
			return err
		}
		if k.getStore(ctx).Has(types.OrderKey(owner, seq)) {
			return types.ErrInvalidState.Wrapf("order %d of %s already exists", seq, owner)
		}

		order = types.Order{
			Sequence:         seq,
			Owner:            owner.String(),
			PoolID:           poolID,
			AmountIn:         amountIn,
			MinAmountOut:     minAmountOut,
			IsBaseInput:      isBaseInput,
			SourceAsset:      sub.sourceAsset,
			DestinationAsset: sub.destinationAsset,
			Status:           types.OrderStatusPending,
			SubmittedAt:      ctx.BlockTime(),
		}
		if err := k.setOrder(ctx, order); err != nil {
			return err
		}

		emitOrderSubmitted(ctx, seq, sub, types.SubmissionModeDurable)
		k.Logger(ctx).Debug("order submitted", "sequence", seq, "owner", order.Owner, "pool_id", poolID)
		return nil
	})
	if err != nil {
		return types.Order{}, err
	}

	k.metrics.OrdersSubmitted.WithLabelValues(types.SubmissionModeDurable).Inc()
	k.syncPendingGauge(ctx)
	return order, nil
}

// SubmitOrderLite advances the counter and emits order_submitted without
// storing the order. It costs no order storage but leaves no on-chain record;
// observers reconstruct the queue from the notification alone.
func (k Keeper) SubmitOrderLite(
	ctx context.Context,
	owner sdk.AccAddress,
	poolID string,
	amountIn, minAmountOut uint64,
	isBaseInput bool,
	sourceAsset string,
) (uint64, error) {
	sub := submission{
		owner:        owner,
		poolID:       poolID,
		amountIn:     amountIn,
		minAmountOut: minAmountOut,
		isBaseInput:  isBaseInput,
		sourceAsset:  sourceAsset,
	}

	var seq uint64
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		var err error
		seq, err = k.admitSubmission(ctx, &sub)
		if err != nil {
			return err
		}
		emitOrderSubmitted(ctx, seq, sub, types.SubmissionModeLite)
		return nil
	})
	if err != nil {
		return 0, err
	}

	k.metrics.OrdersSubmitted.WithLabelValues(types.SubmissionModeLite).Inc()
	return seq, nil
}

// ============================================================================
// Execution
// ============================================================================

// ExecuteOrder forwards the order at the head of poolID's queue.
//
// expectedSequence is the executor's view of the head. An already finalized
// order fails with ErrInvalidOrderStatus; any other mismatch fails with
// ErrInvalidSequence and leaves the queue untouched. On a forwarded-call
// failure the order stays pending and can be retried by any relayer.
func (k Keeper) ExecuteOrder(
	ctx context.Context,
	executor sdk.AccAddress,
	poolID string,
	expectedSequence uint64,
	passThrough []types.AccountMeta,
) (types.Order, error) {
	var order types.Order
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireRelayer(state, executor); err != nil {
			return err
		}

		order, err = k.resolveQueueHead(ctx, poolID, expectedSequence)
		if err != nil {
			return err
		}

		pool, err := k.getActivePool(ctx, order.PoolID)
		if err != nil {
			return err
		}
		params := k.GetParams(ctx)
		if err := checkPassThrough(params, pool, passThrough); err != nil {
			return err
		}

		owner, err := sdk.AccAddressFromBech32(order.Owner)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("order owner: %v", err)
		}
		leg := swapLeg{
			owner:            owner,
			sourceAsset:      order.SourceAsset,
			destinationAsset: order.DestinationAsset,
			amountIn:         order.AmountIn,
			minAmountOut:     order.MinAmountOut,
			isBaseInput:      order.IsBaseInput,
		}
		res, err := k.forwardSwap(ctx, params, pool.PoolID, leg, passThrough)
		if err != nil {
			return err
		}

		now := ctx.BlockTime()
		order.Status = types.OrderStatusExecuted
		order.FinalizedAt = &now
		order.AmountOut = res.amountOut
		order.Executor = executor.String()
		if err := k.setOrder(ctx, order); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeOrderExecuted,
				sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(order.Sequence, 10)),
				sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
				sdk.NewAttribute(types.AttributeKeyAmountOut, strconv.FormatUint(order.AmountOut, 10)),
				sdk.NewAttribute(types.AttributeKeyExecutor, order.Executor),
			),
		)
		k.Logger(ctx).Info("order executed",
			"sequence", order.Sequence,
			"owner", order.Owner,
			"amount_out", order.AmountOut,
			"executor", order.Executor,
		)
		return nil
	})
	if err != nil {
		k.metrics.ExecutionFailures.WithLabelValues(errorLabel(err)).Inc()
		return types.Order{}, err
	}

	k.metrics.OrdersFinalized.WithLabelValues(types.OrderStatusExecuted.String()).Inc()
	k.syncPendingGauge(ctx)
	return order, nil
}

// resolveQueueHead returns the pending order at the head of poolID's queue
// after checking it against the executor's expected sequence.
func (k Keeper) resolveQueueHead(ctx context.Context, poolID string, expectedSequence uint64) (types.Order, error) {
	if target, err := k.GetOrderBySequence(ctx, expectedSequence); err == nil && target.PoolID == poolID && target.Status.IsTerminal() {
		return types.Order{}, types.ErrInvalidOrderStatus.Wrapf("order %d is %s", expectedSequence, target.Status)
	}

	head, found, err := k.PoolQueueHead(ctx, poolID)
	if err != nil {
		return types.Order{}, err
	}
	if !found {
		return types.Order{}, types.ErrOrderNotFound.Wrapf("no pending order in pool %s", poolID)
	}
	if head.Sequence != expectedSequence {
		return types.Order{}, types.ErrInvalidSequence.Wrapf("expected %d, head of pool %s is %d", expectedSequence, poolID, head.Sequence)
	}
	if head.Status != types.OrderStatusPending {
		return types.Order{}, types.ErrInvalidOrderStatus.Wrapf("order %d is %s", head.Sequence, head.Status)
	}
	return head, nil
}

// ============================================================================
// Cancellation and failure
// ============================================================================

// CancelOrder withdraws a pending order. Only the owner may cancel, and it
// works regardless of the pause flag or the pool's status.
func (k Keeper) CancelOrder(ctx context.Context, caller sdk.AccAddress, sequence uint64) (types.Order, error) {
	var order types.Order
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		var err error
		order, err = k.GetOrderBySequence(ctx, sequence)
		if err != nil {
			return err
		}
		if order.Owner != caller.String() {
			return types.ErrUnauthorized.Wrapf("%s does not own order %d", caller, sequence)
		}
		if order.Status != types.OrderStatusPending {
			return types.ErrInvalidOrderStatus.Wrapf("order %d is %s", sequence, order.Status)
		}

		now := ctx.BlockTime()
		order.Status = types.OrderStatusCancelled
		order.FinalizedAt = &now
		if err := k.setOrder(ctx, order); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeOrderCancelled,
				sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
				sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			),
		)
		k.Logger(ctx).Info("order cancelled", "sequence", sequence, "owner", order.Owner)
		return nil
	})
	if err != nil {
		return types.Order{}, err
	}

	k.metrics.OrdersFinalized.WithLabelValues(types.OrderStatusCancelled.String()).Inc()
	k.syncPendingGauge(ctx)
	return order, nil
}

// FailOrder retires a pending order the engine will not accept, so it stops
// blocking its pool's queue. Relayer only.
func (k Keeper) FailOrder(ctx context.Context, executor sdk.AccAddress, sequence uint64, reason string) (types.Order, error) {
	var order types.Order
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireRelayer(state, executor); err != nil {
			return err
		}
		order, err = k.GetOrderBySequence(ctx, sequence)
		if err != nil {
			return err
		}
		if order.Status != types.OrderStatusPending {
			return types.ErrInvalidOrderStatus.Wrapf("order %d is %s", sequence, order.Status)
		}

		now := ctx.BlockTime()
		order.Status = types.OrderStatusFailed
		order.FinalizedAt = &now
		order.Executor = executor.String()
		if err := k.setOrder(ctx, order); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeOrderFailed,
				sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
				sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
				sdk.NewAttribute(types.AttributeKeyExecutor, order.Executor),
				sdk.NewAttribute(types.AttributeKeyReason, reason),
			),
		)
		k.Logger(ctx).Info("order failed", "sequence", sequence, "reason", reason)
		return nil
	})
	if err != nil {
		return types.Order{}, err
	}

	k.metrics.OrdersFinalized.WithLabelValues(types.OrderStatusFailed.String()).Inc()
	k.syncPendingGauge(ctx)
	return order, nil
}
