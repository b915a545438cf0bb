package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/continuum-labs/continuum/x/sequencer/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// AMMStoreKey is the store the mock engine keeps pools and balances in.
const AMMStoreKey = "amm"

// SequencerKeeper creates a test keeper for the sequencer module backed by a
// mock constant-product engine.
func SequencerKeeper(t testing.TB) (keeper.Keeper, sdk.Context, *MockAMM) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ammKey := storetypes.NewKVStoreKey(AMMStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(ammKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	amm := NewMockAMM(ammKey, types.DefaultEngine)
	k := keeper.NewKeeper(storeKey, amm, amm)

	header := cmtproto.Header{Height: 1, Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return *k, ctx, amm
}

// TestAddr returns a deterministic 20-byte account address for name.
func TestAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// InitializeSequencer initializes the sequencer with admin and authorizes relayers.
func InitializeSequencer(t testing.TB, k keeper.Keeper, ctx sdk.Context, admin sdk.AccAddress, relayers ...sdk.AccAddress) {
	require.NoError(t, k.Initialize(ctx, admin, 0))
	for _, r := range relayers {
		require.NoError(t, k.AddRelayer(ctx, admin, r))
	}
}

// PoolRef is the pass-through reference to poolID itself.
func PoolRef(poolID string) types.AccountMeta {
	return types.NewAccountMeta(poolID, "")
}

// PoolPassThrough is the minimal reference list a strict-mode swap accepts.
func PoolPassThrough(poolID string) []types.AccountMeta {
	return []types.AccountMeta{PoolRef(poolID)}
}

// RegisterTestPool registers poolID with assets asset0/asset1 and the given
// initial reserves.
func RegisterTestPool(
	t testing.TB,
	k keeper.Keeper,
	ctx sdk.Context,
	admin sdk.AccAddress,
	poolID, asset0, asset1 string,
	reserve0, reserve1 uint64,
) types.PoolRegistration {
	passThrough := []types.AccountMeta{
		PoolRef(poolID),
		types.NewReadonlyAccountMeta(poolID, asset0),
		types.NewReadonlyAccountMeta(poolID, asset1),
	}
	pool, err := k.RegisterPool(ctx, admin, poolID, asset0, asset1, types.InitParams{
		InitAmount0: reserve0,
		InitAmount1: reserve1,
	}, passThrough)
	require.NoError(t, err)
	return pool
}
