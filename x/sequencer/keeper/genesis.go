package keeper

import (
	"context"
	"fmt"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// InitGenesis initializes the sequencer module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	if genState.State == nil {
		return nil
	}
	if err := k.writeSequencerState(ctx, *genState.State); err != nil {
		return fmt.Errorf("failed to set sequencer state: %w", err)
	}

	for _, pool := range genState.Pools {
		if err := k.setPoolRegistration(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %s: %w", pool.PoolID, err)
		}
	}

	// Rebuilds the sequence and pending indexes.
	for _, order := range genState.Orders {
		if err := k.setOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to set order %d: %w", order.Sequence, err)
		}
	}
	k.syncPendingGauge(ctx)

	return nil
}

// ExportGenesis returns the sequencer module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()
	genesis.Params = k.GetParams(ctx)

	if !k.IsInitialized(ctx) {
		return genesis, nil
	}
	state, err := k.GetSequencerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sequencer state: %w", err)
	}
	genesis.State = &state

	pools, err := k.GetAllPoolRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}
	genesis.Pools = append(genesis.Pools, pools...)

	orders, err := k.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	genesis.Orders = append(genesis.Orders, orders...)

	return genesis, nil
}
