package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	dto "github.com/prometheus/client_model/go"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// StoreKey exposes the module store key so keeper_test packages can corrupt state on purpose.
func (k Keeper) StoreKey() storetypes.StoreKey {
	return k.storeKey
}

// PendingGaugeValue reads the pending orders gauge.
func (k Keeper) PendingGaugeValue() float64 {
	var m dto.Metric
	if err := k.metrics.PendingOrders.Write(&m); err != nil {
		return -1
	}
	return m.GetGauge().GetValue()
}

// CompareAndSwapState exposes the versioned state write.
func (k Keeper) CompareAndSwapState(ctx context.Context, loaded, next types.SequencerState) (types.SequencerState, error) {
	return k.compareAndSwapState(ctx, loaded, next)
}
