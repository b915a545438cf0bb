package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validGenesis() GenesisState {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	gs := *DefaultGenesis()
	gs.State = &SequencerState{
		CurrentSequence: 2,
		Admin:           testAdmin,
		Relayers:        []string{testOwner},
		MaxRelayers:     4,
	}
	gs.Pools = []PoolRegistration{{
		PoolID:             "p",
		DelegatedAuthority: DeriveDelegatedAuthority("p").String(),
		Active:             true,
		CreatedAt:          now,
		Asset0:             "uatom",
		Asset1:             "uusdc",
	}}
	gs.Orders = []Order{
		{Sequence: 1, Owner: testOwner, PoolID: "p", AmountIn: 1, MinAmountOut: 1, SourceAsset: "uatom", DestinationAsset: "uusdc", Status: OrderStatusExecuted, SubmittedAt: now, FinalizedAt: &now},
		{Sequence: 2, Owner: testOwner, PoolID: "p", AmountIn: 1, MinAmountOut: 1, SourceAsset: "uatom", DestinationAsset: "uusdc", SubmittedAt: now},
	}
	return gs
}

func TestDefaultGenesis(t *testing.T) {
	gs := DefaultGenesis()
	require.NoError(t, gs.Validate())
	require.Nil(t, gs.State)
	require.NotNil(t, gs.Pools)
	require.NotNil(t, gs.Orders)
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, validGenesis().Validate())

	tests := []struct {
		name   string
		mutate func(*GenesisState)
	}{
		{"invalid params", func(gs *GenesisState) { gs.Params.MaxPassThroughAccounts = 0 }},
		{"pools without state", func(gs *GenesisState) { gs.State = nil }},
		{"order ahead of counter", func(gs *GenesisState) { gs.State.CurrentSequence = 1 }},
		{"duplicate order", func(gs *GenesisState) { gs.Orders[1].Sequence = 1 }},
		{"duplicate pool", func(gs *GenesisState) { gs.Pools = append(gs.Pools, gs.Pools[0]) }},
		{"unknown pool", func(gs *GenesisState) { gs.Orders[0].PoolID = "q" }},
		{"forged authority", func(gs *GenesisState) { gs.Pools[0].DelegatedAuthority = DeriveDelegatedAuthority("q").String() }},
		{"terminal order without timestamp", func(gs *GenesisState) { gs.Orders[0].FinalizedAt = nil }},
		{"pending order with timestamp", func(gs *GenesisState) { gs.Orders[1].FinalizedAt = &gs.Orders[1].SubmittedAt }},
		{"duplicate relayer", func(gs *GenesisState) { gs.State.Relayers = []string{testOwner, testOwner} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := validGenesis()
			tc.mutate(&gs)
			require.Error(t, gs.Validate())
		})
	}
}

func TestOrderStatus(t *testing.T) {
	require.False(t, OrderStatusPending.IsTerminal())
	require.True(t, OrderStatusExecuted.IsTerminal())
	require.True(t, OrderStatusCancelled.IsTerminal())
	require.True(t, OrderStatusFailed.IsTerminal())
	require.Equal(t, "cancelled", OrderStatusCancelled.String())
	require.Equal(t, "unknown(9)", OrderStatus(9).String())
}

func TestPoolRegistrationAssets(t *testing.T) {
	p := validGenesis().Pools[0]
	require.True(t, p.HasAsset("uatom"))
	require.False(t, p.HasAsset("uosmo"))
	require.False(t, p.HasAsset(""))

	other, ok := p.OtherAsset("uusdc")
	require.True(t, ok)
	require.Equal(t, "uatom", other)
	_, ok = p.OtherAsset("uosmo")
	require.False(t, ok)
}
