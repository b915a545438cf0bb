package keeper

import (
	"context"
	"encoding/json"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// GetPoolRegistration returns the registration of poolID.
func (k Keeper) GetPoolRegistration(ctx context.Context, poolID string) (types.PoolRegistration, error) {
	bz := k.getStore(ctx).Get(types.PoolRegistrationKey(poolID))
	if bz == nil {
		return types.PoolRegistration{}, types.ErrPoolNotRegistered.Wrapf("pool %s", poolID)
	}
	var pool types.PoolRegistration
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.PoolRegistration{}, types.ErrInvalidState.Wrapf("failed to unmarshal pool %s: %v", poolID, err)
	}
	return pool, nil
}

// setPoolRegistration stores a pool registration.
func (k Keeper) setPoolRegistration(ctx context.Context, pool types.PoolRegistration) error {
	bz, err := json.Marshal(pool)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal pool %s: %v", pool.PoolID, err)
	}
	k.getStore(ctx).Set(types.PoolRegistrationKey(pool.PoolID), bz)
	return nil
}

// getActivePool returns the registration of poolID if it exists and is active.
func (k Keeper) getActivePool(ctx context.Context, poolID string) (types.PoolRegistration, error) {
	pool, err := k.GetPoolRegistration(ctx, poolID)
	if err != nil {
		return types.PoolRegistration{}, err
	}
	if !pool.Active {
		return types.PoolRegistration{}, types.ErrPoolNotRegistered.Wrapf("pool %s is inactive", poolID)
	}
	return pool, nil
}

// GetAllPoolRegistrations returns every registered pool ordered by pool ID.
func (k Keeper) GetAllPoolRegistrations(ctx context.Context) ([]types.PoolRegistration, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolRegistrationKeyPrefix)
	defer iterator.Close()

	var pools []types.PoolRegistration
	for ; iterator.Valid(); iterator.Next() {
		var pool types.PoolRegistration
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal pool: %v", err)
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// RegisterPool creates a pool on the external engine with the derived
// delegated authority as its controlling identity, then records it.
//
// The pool's assets are supplied explicitly. Any failure of the forwarded
// call leaves no registration behind.
func (k Keeper) RegisterPool(
	ctx context.Context,
	admin sdk.AccAddress,
	poolID string,
	asset0, asset1 string,
	init types.InitParams,
	passThrough []types.AccountMeta,
) (types.PoolRegistration, error) {
	var pool types.PoolRegistration
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireAdmin(state, admin); err != nil {
			return err
		}
		if k.getStore(ctx).Has(types.PoolRegistrationKey(poolID)) {
			return types.ErrPoolAlreadyRegistered.Wrapf("pool %s", poolID)
		}

		params := k.GetParams(ctx)
		if uint32(len(passThrough)) > params.MaxPassThroughAccounts {
			return types.ErrInvalidPassThrough.Wrapf("%d accounts exceed limit %d", len(passThrough), params.MaxPassThroughAccounts)
		}
		call, err := buildInitializeCall(params, poolID, init, passThrough)
		if err != nil {
			return err
		}

		pool = types.PoolRegistration{
			PoolID:             poolID,
			DelegatedAuthority: types.DeriveDelegatedAuthority(poolID).String(),
			Active:             true,
			CreatedAt:          ctx.BlockTime(),
			Asset0:             asset0,
			Asset1:             asset1,
		}
		if err := pool.Validate(); err != nil {
			return err
		}

		if err := k.forward(ctx, call); err != nil {
			return err
		}
		if err := k.setPoolRegistration(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePoolRegistered,
				sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
				sdk.NewAttribute(types.AttributeKeyDelegatedAuthority, pool.DelegatedAuthority),
				sdk.NewAttribute(types.AttributeKeyAsset0, pool.Asset0),
				sdk.NewAttribute(types.AttributeKeyAsset1, pool.Asset1),
			),
		)
		k.Logger(ctx).Info("pool registered", "pool_id", pool.PoolID, "authority", pool.DelegatedAuthority)
		return nil
	})
	if err != nil {
		return types.PoolRegistration{}, err
	}

	k.metrics.PoolsRegistered.Inc()
	return pool, nil
}

// SetPoolActive activates or deactivates a pool (admin only). Deactivation
// stops new submissions and executions; pending orders can still be cancelled.
func (k Keeper) SetPoolActive(ctx context.Context, admin sdk.AccAddress, poolID string, active bool) error {
	return k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireAdmin(state, admin); err != nil {
			return err
		}
		pool, err := k.GetPoolRegistration(ctx, poolID)
		if err != nil {
			return err
		}
		if pool.Active == active {
			return nil
		}
		pool.Active = active
		if err := k.setPoolRegistration(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePoolStatusChanged,
				sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
				sdk.NewAttribute(types.AttributeKeyActive, strconv.FormatBool(active)),
			),
		)
		k.Logger(ctx).Info("pool status changed", "pool_id", poolID, "active", active)
		return nil
	})
}
