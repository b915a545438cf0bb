package keeper

import (
	"context"
	"encoding/json"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// GetSequencerState loads the global sequencer record.
func (k Keeper) GetSequencerState(ctx context.Context) (types.SequencerState, error) {
	bz := k.getStore(ctx).Get(types.SequencerStateKey)
	if bz == nil {
		return types.SequencerState{}, types.ErrNotInitialized
	}
	var state types.SequencerState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.SequencerState{}, types.ErrInvalidState.Wrapf("failed to unmarshal sequencer state: %v", err)
	}
	return state, nil
}

// IsInitialized reports whether the sequencer record exists.
func (k Keeper) IsInitialized(ctx context.Context) bool {
	return k.getStore(ctx).Has(types.SequencerStateKey)
}

func (k Keeper) writeSequencerState(ctx context.Context, state types.SequencerState) error {
	bz, err := json.Marshal(state)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal sequencer state: %v", err)
	}
	k.getStore(ctx).Set(types.SequencerStateKey, bz)
	return nil
}

// compareAndSwapState writes next only if the stored record is still at
// loaded.Version, and bumps the version. The host runs transactions one at a
// time, so a conflict means the caller mutated from a stale copy, for
// example one loaded before a nested update within the same message.
func (k Keeper) compareAndSwapState(ctx context.Context, loaded, next types.SequencerState) (types.SequencerState, error) {
	current, err := k.GetSequencerState(ctx)
	if err != nil {
		return types.SequencerState{}, err
	}
	if current.Version != loaded.Version {
		return types.SequencerState{}, types.ErrStateConflict.Wrapf(
			"expected version %d, found %d", loaded.Version, current.Version)
	}
	if next.CurrentSequence < current.CurrentSequence {
		return types.SequencerState{}, types.ErrInvalidState.Wrapf(
			"sequence cannot decrease from %d to %d", current.CurrentSequence, next.CurrentSequence)
	}
	next.Version = loaded.Version + 1
	if err := k.writeSequencerState(ctx, next); err != nil {
		return types.SequencerState{}, err
	}
	return next, nil
}

// updateSequencerState loads the record, applies mutate to a copy and
// compare-and-swaps the result.
func (k Keeper) updateSequencerState(ctx context.Context, mutate func(*types.SequencerState) error) (types.SequencerState, error) {
	loaded, err := k.GetSequencerState(ctx)
	if err != nil {
		return types.SequencerState{}, err
	}
	next := loaded.Clone()
	if err := mutate(&next); err != nil {
		return types.SequencerState{}, err
	}
	return k.compareAndSwapState(ctx, loaded, next)
}

// Initialize creates the sequencer record. It can only succeed once.
func (k Keeper) Initialize(ctx context.Context, admin sdk.AccAddress, maxRelayers uint32) error {
	if admin.Empty() {
		return types.ErrInvalidAddress.Wrap("admin cannot be empty")
	}
	if maxRelayers == 0 {
		maxRelayers = types.DefaultMaxRelayers
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		if k.IsInitialized(ctx) {
			return types.ErrAlreadyInitialized
		}
		state := types.SequencerState{
			Admin:       admin.String(),
			Relayers:    []string{},
			MaxRelayers: maxRelayers,
		}
		if err := k.writeSequencerState(ctx, state); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSequencerInitialized,
				sdk.NewAttribute(types.AttributeKeyAdmin, state.Admin),
			),
		)
		k.Logger(ctx).Info("sequencer initialized", "admin", state.Admin, "max_relayers", maxRelayers)
		return nil
	})
}

func requireAdmin(state types.SequencerState, caller sdk.AccAddress) error {
	if caller.String() != state.Admin {
		return types.ErrUnauthorized.Wrapf("%s is not the sequencer admin", caller)
	}
	return nil
}

func requireRelayer(state types.SequencerState, caller sdk.AccAddress) error {
	if !state.HasRelayer(caller.String()) {
		return types.ErrUnauthorized.Wrapf("%s is not an authorized relayer", caller)
	}
	return nil
}

func requireNotPaused(state types.SequencerState) error {
	if state.Paused {
		return types.ErrEmergencyPause
	}
	return nil
}

// SetPause sets the global emergency pause flag (admin only).
func (k Keeper) SetPause(ctx context.Context, admin sdk.AccAddress, paused bool) error {
	return k.atomically(ctx, func(ctx sdk.Context) error {
		_, err := k.updateSequencerState(ctx, func(s *types.SequencerState) error {
			if err := requireAdmin(*s, admin); err != nil {
				return err
			}
			s.Paused = paused
			return nil
		})
		if err != nil {
			return err
		}

		eventType := types.EventTypeSequencerUnpaused
		if paused {
			eventType = types.EventTypeSequencerPaused
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				eventType,
				sdk.NewAttribute(types.AttributeKeyAdmin, admin.String()),
				sdk.NewAttribute(types.AttributeKeyTimestamp, strconv.FormatInt(ctx.BlockTime().Unix(), 10)),
			),
		)
		k.Logger(ctx).Info("sequencer pause updated", "paused", paused, "height", ctx.BlockHeight())
		return nil
	})
}

// AddRelayer authorizes an executor (admin only). Fails if the relayer is
// already present or the allow-list is at capacity.
func (k Keeper) AddRelayer(ctx context.Context, admin, relayer sdk.AccAddress) error {
	if relayer.Empty() {
		return types.ErrInvalidAddress.Wrap("relayer cannot be empty")
	}
	return k.atomically(ctx, func(ctx sdk.Context) error {
		_, err := k.updateSequencerState(ctx, func(s *types.SequencerState) error {
			if err := requireAdmin(*s, admin); err != nil {
				return err
			}
			if s.HasRelayer(relayer.String()) {
				return types.ErrRelayerExists.Wrapf("%s", relayer)
			}
			if uint32(len(s.Relayers)) >= s.MaxRelayers {
				return types.ErrRelayerSetFull.Wrapf("capacity %d reached", s.MaxRelayers)
			}
			s.Relayers = append(s.Relayers, relayer.String())
			return nil
		})
		if err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRelayerAdded,
				sdk.NewAttribute(types.AttributeKeyRelayer, relayer.String()),
			),
		)
		k.Logger(ctx).Info("relayer added", "relayer", relayer.String())
		return nil
	})
}

// RemoveRelayer revokes an executor (admin only). Removing an absent relayer is a no-op.
func (k Keeper) RemoveRelayer(ctx context.Context, admin, relayer sdk.AccAddress) error {
	return k.atomically(ctx, func(ctx sdk.Context) error {
		removed := false
		_, err := k.updateSequencerState(ctx, func(s *types.SequencerState) error {
			if err := requireAdmin(*s, admin); err != nil {
				return err
			}
			kept := s.Relayers[:0]
			for _, r := range s.Relayers {
				if r == relayer.String() {
					removed = true
					continue
				}
				kept = append(kept, r)
			}
			s.Relayers = kept
			return nil
		})
		if err != nil {
			return err
		}

		if removed {
			ctx.EventManager().EmitEvent(
				sdk.NewEvent(
					types.EventTypeRelayerRemoved,
					sdk.NewAttribute(types.AttributeKeyRelayer, relayer.String()),
				),
			)
			k.Logger(ctx).Info("relayer removed", "relayer", relayer.String())
		}
		return nil
	})
}

// IsRelayer reports whether addr is an authorized executor.
func (k Keeper) IsRelayer(ctx context.Context, addr sdk.AccAddress) bool {
	state, err := k.GetSequencerState(ctx)
	if err != nil {
		return false
	}
	return state.HasRelayer(addr.String())
}

// UpdateParams replaces the module parameters (admin only).
func (k Keeper) UpdateParams(ctx context.Context, admin sdk.AccAddress, params types.Params) error {
	return k.atomically(ctx, func(ctx sdk.Context) error {
		state, err := k.GetSequencerState(ctx)
		if err != nil {
			return err
		}
		if err := requireAdmin(state, admin); err != nil {
			return err
		}
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeParamsUpdated,
				sdk.NewAttribute(types.AttributeKeyAdmin, admin.String()),
			),
		)
		return nil
	})
}
