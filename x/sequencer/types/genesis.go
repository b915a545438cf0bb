package types

import (
	"fmt"
)

// GenesisState defines the sequencer module's genesis state.
//
// State is nil until the sequencer has been initialized; a chain can either
// start with it set or initialize later through MsgInitialize.
type GenesisState struct {
	Params Params             `json:"params"`
	State  *SequencerState    `json:"state,omitempty"`
	Pools  []PoolRegistration `json:"pools"`
	Orders []Order            `json:"orders"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Pools:  []PoolRegistration{},
		Orders: []Order{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	var current uint64
	if gs.State != nil {
		if err := gs.State.Validate(); err != nil {
			return fmt.Errorf("invalid sequencer state: %w", err)
		}
		current = gs.State.CurrentSequence
	} else if len(gs.Pools) > 0 || len(gs.Orders) > 0 {
		return fmt.Errorf("pools and orders require an initialized sequencer state")
	}

	pools := make(map[string]struct{}, len(gs.Pools))
	for _, p := range gs.Pools {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid pool %s: %w", p.PoolID, err)
		}
		if _, dup := pools[p.PoolID]; dup {
			return fmt.Errorf("duplicate pool %s", p.PoolID)
		}
		pools[p.PoolID] = struct{}{}
	}

	seqs := make(map[uint64]struct{}, len(gs.Orders))
	for _, o := range gs.Orders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("invalid order %d: %w", o.Sequence, err)
		}
		if o.Sequence > current {
			return fmt.Errorf("order %d is ahead of current sequence %d", o.Sequence, current)
		}
		if _, dup := seqs[o.Sequence]; dup {
			return fmt.Errorf("duplicate order sequence %d", o.Sequence)
		}
		if _, ok := pools[o.PoolID]; !ok {
			return fmt.Errorf("order %d references unknown pool %s", o.Sequence, o.PoolID)
		}
		seqs[o.Sequence] = struct{}{}
	}

	return nil
}
