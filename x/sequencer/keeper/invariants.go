package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// RegisterInvariants registers all sequencer invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "sequence-bound", SequenceBoundInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pending-index", PendingIndexInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-authority", PoolAuthorityInvariant(k))
}

// AllInvariants runs all invariants of the sequencer module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := SequenceBoundInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PendingIndexInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PoolAuthorityInvariant(k)(ctx)
	}
}

// SequenceBoundInvariant checks that no stored order is ahead of the counter
// and that the terminal timestamp matches each order's status.
func SequenceBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		orders, err := k.GetAllOrders(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "sequence-bound", err.Error()), true
		}

		var current uint64
		if state, err := k.GetSequencerState(ctx); err == nil {
			current = state.CurrentSequence
		}

		for _, order := range orders {
			if order.Sequence == 0 || order.Sequence > current {
				count++
				msg += fmt.Sprintf("order %d outside (0, %d]\n", order.Sequence, current)
			}
			if err := order.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("order %d: %v\n", order.Sequence, err)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "sequence-bound",
			fmt.Sprintf("found %d invalid orders\n%s", count, msg),
		), broken
	}
}

// PendingIndexInvariant checks that every order in the pending index is
// pending and every pending order is indexed.
func PendingIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pending, err := k.GetPendingOrders(ctx, 0)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pending-index", err.Error()), true
		}
		indexed := make(map[uint64]struct{}, len(pending))
		for _, order := range pending {
			indexed[order.Sequence] = struct{}{}
			if order.Status != types.OrderStatusPending {
				count++
				msg += fmt.Sprintf("order %d is %s but indexed as pending\n", order.Sequence, order.Status)
			}
		}

		orders, err := k.GetAllOrders(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pending-index", err.Error()), true
		}
		for _, order := range orders {
			if order.Status != types.OrderStatusPending {
				continue
			}
			if _, ok := indexed[order.Sequence]; !ok {
				count++
				msg += fmt.Sprintf("pending order %d missing from index\n", order.Sequence)
			}
		}

		if stored := k.PendingOrderCount(ctx); stored != uint64(len(pending)) {
			count++
			msg += fmt.Sprintf("pending count %d, index holds %d\n", stored, len(pending))
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pending-index",
			fmt.Sprintf("found %d index mismatches\n%s", count, msg),
		), broken
	}
}

// PoolAuthorityInvariant checks every registration against its derivation.
func PoolAuthorityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPoolRegistrations(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-authority", err.Error()), true
		}
		for _, pool := range pools {
			if err := types.VerifyDelegatedAuthority(pool.PoolID, pool.DelegatedAuthority); err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.PoolID, err)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-authority",
			fmt.Sprintf("found %d pools with a mismatched authority\n%s", count, msg),
		), broken
	}
}
