package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// swapLeg is everything needed to forward one swap on behalf of an owner.
type swapLeg struct {
	owner            sdk.AccAddress
	sourceAsset      string
	destinationAsset string
	amountIn         uint64
	minAmountOut     uint64
	isBaseInput      bool
}

// swapResult is what was measured around the forwarded call.
type swapResult struct {
	amountOut uint64
	spent     uint64
}

// checkPassThrough cross-checks caller-supplied references against the pool
// registration. With StrictPassThrough off only the size cap applies.
func checkPassThrough(params types.Params, pool types.PoolRegistration, metas []types.AccountMeta) error {
	if uint32(len(metas)) > params.MaxPassThroughAccounts {
		return types.ErrInvalidPassThrough.Wrapf("%d accounts exceed limit %d", len(metas), params.MaxPassThroughAccounts)
	}
	if !params.StrictPassThrough {
		return nil
	}

	poolRef := false
	for i, m := range metas {
		if m.Address == pool.PoolID && m.Denom == "" {
			poolRef = true
		}
		if m.Denom != "" && !pool.HasAsset(m.Denom) {
			return types.ErrInvalidPassThrough.Wrapf("account %d references %s which is not an asset of pool %s", i, m.Denom, pool.PoolID)
		}
	}
	if !poolRef {
		return types.ErrInvalidPassThrough.Wrapf("no reference to registered pool %s", pool.PoolID)
	}
	return nil
}

// passThroughMetas copies caller references keeping their writable flag.
// Only the delegated authority may sign a forwarded call.
func passThroughMetas(metas []types.AccountMeta) []types.AccountMeta {
	out := make([]types.AccountMeta, 0, len(metas))
	for _, m := range metas {
		m.IsSigner = false
		out = append(out, m)
	}
	return out
}

// authorityMeta is the first account of every forwarded call.
func authorityMeta(poolID string) types.AccountMeta {
	return types.AccountMeta{
		Address:  types.DeriveDelegatedAuthority(poolID).String(),
		IsSigner: true,
	}
}

// buildSwapCall lays out a swap call: authority, owner source, owner
// destination, then the pass-through references.
func buildSwapCall(params types.Params, poolID string, leg swapLeg, passThrough []types.AccountMeta) types.ForwardedCall {
	accounts := make([]types.AccountMeta, 0, 3+len(passThrough))
	accounts = append(accounts,
		authorityMeta(poolID),
		types.NewAccountMeta(leg.owner.String(), leg.sourceAsset),
		types.NewAccountMeta(leg.owner.String(), leg.destinationAsset),
	)
	accounts = append(accounts, passThroughMetas(passThrough)...)

	return types.ForwardedCall{
		Engine:    params.Engine,
		Accounts:  accounts,
		Data:      types.EncodeSwapPayload(leg.isBaseInput, leg.amountIn, leg.minAmountOut),
		Authority: types.NewAuthorityProof(poolID),
	}
}

// buildInitializeCall lays out the pool-creation call.
func buildInitializeCall(params types.Params, poolID string, init types.InitParams, passThrough []types.AccountMeta) (types.ForwardedCall, error) {
	authority := types.DeriveDelegatedAuthority(poolID)
	data, err := types.EncodeInitializePayload(init, authority)
	if err != nil {
		return types.ForwardedCall{}, err
	}
	accounts := append([]types.AccountMeta{authorityMeta(poolID)}, passThroughMetas(passThrough)...)
	return types.ForwardedCall{
		Engine:    params.Engine,
		Accounts:  accounts,
		Data:      data,
		Authority: types.NewAuthorityProof(poolID),
	}, nil
}

// forward issues call against the engine. Callers run inside atomically, so
// an error here discards everything the engine did.
func (k Keeper) forward(ctx sdk.Context, call types.ForwardedCall) error {
	start := time.Now()
	op := opcodeLabel(call)

	err := k.engine.Invoke(ctx, call)
	k.metrics.ForwardLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		k.metrics.ForwardedCalls.WithLabelValues(op, "error").Inc()
		return types.ErrForwardedCallFailed.Wrapf("%s: %v", op, err)
	}
	k.metrics.ForwardedCalls.WithLabelValues(op, "ok").Inc()
	return nil
}

// forwardSwap forwards a swap and measures its effect on the owner's
// balances strictly around the call.
func (k Keeper) forwardSwap(ctx sdk.Context, params types.Params, poolID string, leg swapLeg, passThrough []types.AccountMeta) (swapResult, error) {
	preDst := k.bankKeeper.GetBalance(ctx, leg.owner, leg.destinationAsset).Amount
	preSrc := k.bankKeeper.GetBalance(ctx, leg.owner, leg.sourceAsset).Amount

	if err := k.forward(ctx, buildSwapCall(params, poolID, leg, passThrough)); err != nil {
		return swapResult{}, err
	}

	postDst := k.bankKeeper.GetBalance(ctx, leg.owner, leg.destinationAsset).Amount
	postSrc := k.bankKeeper.GetBalance(ctx, leg.owner, leg.sourceAsset).Amount

	amountOut, err := balanceDelta(preDst, postDst)
	if err != nil {
		return swapResult{}, types.ErrInvalidState.Wrapf("destination %s: %v", leg.destinationAsset, err)
	}
	spent, err := balanceDelta(postSrc, preSrc)
	if err != nil {
		return swapResult{}, types.ErrInvalidState.Wrapf("source %s: %v", leg.sourceAsset, err)
	}

	res := swapResult{amountOut: amountOut, spent: spent}
	if params.EnforceSlippage {
		if err := checkSlippage(leg, res); err != nil {
			return swapResult{}, err
		}
	}
	return res, nil
}

// balanceDelta returns after-before as a uint64.
func balanceDelta(before, after math.Int) (uint64, error) {
	if after.LT(before) {
		return 0, types.ErrInvalidState.Wrapf("balance decreased from %s to %s", before, after)
	}
	delta := after.Sub(before)
	if !delta.IsUint64() {
		return 0, types.ErrInvalidState.Wrapf("delta %s overflows uint64", delta)
	}
	return delta.Uint64(), nil
}

// checkSlippage enforces the order's bounds on what was actually measured.
// Base input: received at least min_amount_out.
// Base output: received at least amount_in and spent at most min_amount_out.
func checkSlippage(leg swapLeg, res swapResult) error {
	if leg.isBaseInput {
		if res.amountOut < leg.minAmountOut {
			return types.ErrSlippageExceeded.Wrapf("received %d, minimum %d", res.amountOut, leg.minAmountOut)
		}
		return nil
	}
	if res.amountOut < leg.amountIn {
		return types.ErrSlippageExceeded.Wrapf("received %d, wanted %d", res.amountOut, leg.amountIn)
	}
	if res.spent > leg.minAmountOut {
		return types.ErrSlippageExceeded.Wrapf("spent %d, maximum %d", res.spent, leg.minAmountOut)
	}
	return nil
}

func opcodeLabel(call types.ForwardedCall) string {
	op, ok := call.Opcode()
	if !ok {
		return "unknown"
	}
	switch op {
	case types.OpcodeInitializePool:
		return "initialize"
	case types.OpcodeSwapBaseInput:
		return "swap_base_input"
	case types.OpcodeSwapBaseOutput:
		return "swap_base_output"
	default:
		return "unknown"
	}
}
