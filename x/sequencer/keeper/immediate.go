package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// ImmediateSwap is the outcome of SwapImmediate.
type ImmediateSwap struct {
	Sequence         uint64
	Owner            string
	SourceAsset      string
	DestinationAsset string
	AmountOut        uint64
}

// ownerLeg reads the acting owner from the first two pass-through
// references: source then destination. Both must belong to the same owner
// and name the two different assets of pool.
func ownerLeg(pool types.PoolRegistration, passThrough []types.AccountMeta) (sdk.AccAddress, string, string, error) {
	if len(passThrough) < 2 {
		return nil, "", "", types.ErrInvalidPassThrough.Wrap("owner source and destination references are required")
	}
	src, dst := passThrough[0], passThrough[1]
	if src.Address != dst.Address {
		return nil, "", "", types.ErrInvalidPassThrough.Wrap("source and destination references belong to different owners")
	}
	owner, err := sdk.AccAddressFromBech32(src.Address)
	if err != nil {
		return nil, "", "", types.ErrInvalidAddress.Wrapf("owner reference: %v", err)
	}
	other, ok := pool.OtherAsset(src.Denom)
	if !ok || other != dst.Denom {
		return nil, "", "", types.ErrInvalidPassThrough.Wrapf("%s/%s is not the asset pair of pool %s", src.Denom, dst.Denom, pool.PoolID)
	}
	return owner, src.Denom, dst.Denom, nil
}

// SwapImmediate assigns the next sequence and forwards the swap in the same
// step, without persisting an order. Relayer only. Any failure leaves the
// counter where it was.
func (k Keeper) SwapImmediate(
	ctx context.Context,
	relayer sdk.AccAddress,
	poolID string,
	amountIn, minAmountOut uint64,
	isBaseInput bool,
	passThrough []types.AccountMeta,
) (ImmediateSwap, error) {
	if err := types.ValidateSwapAmounts(amountIn, minAmountOut, isBaseInput); err != nil {
		return ImmediateSwap{}, err
	}

	var result ImmediateSwap
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireNotPaused(state); err != nil {
			return err
		}
		if err := requireRelayer(state, relayer); err != nil {
			return err
		}
		pool, err := k.getActivePool(ctx, poolID)
		if err != nil {
			return err
		}

		owner, srcAsset, dstAsset, err := ownerLeg(pool, passThrough)
		if err != nil {
			return err
		}
		rest := passThrough[2:]
		params := k.GetParams(ctx)
		if err := checkPassThrough(params, pool, rest); err != nil {
			return err
		}

		next, err := k.updateSequencerState(ctx, func(s *types.SequencerState) error {
			s.CurrentSequence++
			return nil
		})
		if err != nil {
			return err
		}

		leg := swapLeg{
			owner:            owner,
			sourceAsset:      srcAsset,
			destinationAsset: dstAsset,
			amountIn:         amountIn,
			minAmountOut:     minAmountOut,
			isBaseInput:      isBaseInput,
		}
		res, err := k.forwardSwap(ctx, params, pool.PoolID, leg, rest)
		if err != nil {
			return err
		}

		result = ImmediateSwap{
			Sequence:         next.CurrentSequence,
			Owner:            owner.String(),
			SourceAsset:      srcAsset,
			DestinationAsset: dstAsset,
			AmountOut:        res.amountOut,
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwapExecuted,
				sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(result.Sequence, 10)),
				sdk.NewAttribute(types.AttributeKeyOwner, result.Owner),
				sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
				sdk.NewAttribute(types.AttributeKeyAmountIn, strconv.FormatUint(amountIn, 10)),
				sdk.NewAttribute(types.AttributeKeyAmountOut, strconv.FormatUint(res.amountOut, 10)),
				sdk.NewAttribute(types.AttributeKeyIsBaseInput, strconv.FormatBool(isBaseInput)),
				sdk.NewAttribute(types.AttributeKeySourceAsset, srcAsset),
				sdk.NewAttribute(types.AttributeKeyDestinationAsset, dstAsset),
				sdk.NewAttribute(types.AttributeKeyExecutor, relayer.String()),
			),
		)
		k.Logger(ctx).Info("immediate swap executed",
			"sequence", result.Sequence,
			"owner", result.Owner,
			"pool_id", pool.PoolID,
			"amount_out", result.AmountOut,
		)
		return nil
	})
	if err != nil {
		k.metrics.ExecutionFailures.WithLabelValues(errorLabel(err)).Inc()
		return ImmediateSwap{}, err
	}

	k.metrics.ImmediateSwaps.Inc()
	return result, nil
}
