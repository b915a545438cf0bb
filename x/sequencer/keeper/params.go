package keeper

import (
	"context"
	"encoding/json"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// GetParams returns the current module parameters, falling back to defaults.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		k.Logger(ctx).Error("failed to decode params, using defaults", "error", err)
		return types.DefaultParams()
	}
	return params
}

// SetParams validates and stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return types.ErrInvalidParams.Wrapf("failed to marshal params: %v", err)
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}
