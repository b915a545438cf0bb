package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/continuum-labs/continuum/testutil/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

func TestDefaultGenesisExport(t *testing.T) {
	k, ctx, _ := keepertest.SequencerKeeper(t)

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Nil(t, exported.State)
	require.Equal(t, types.DefaultParams(), exported.Params)
	require.Empty(t, exported.Pools)
	require.Empty(t, exported.Orders)
}

func (suite *KeeperTestSuite) TestGenesisRoundTrip() {
	first := suite.submit(alice, 1000, 900, testAsset0)
	second := suite.submit(alice, 2000, 1, testAsset0)
	third := suite.submit(bob, 500, 1, testAsset1)
	_, err := suite.keeper.ExecuteOrder(suite.ctx, relayer, testPool, first.Sequence, keepertest.PoolPassThrough(testPool))
	suite.Require().NoError(err)
	_, err = suite.keeper.CancelOrder(suite.ctx, alice, second.Sequence)
	suite.Require().NoError(err)

	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NoError(exported.Validate())
	suite.Require().NotNil(exported.State)
	suite.Require().Equal(uint64(3), exported.State.CurrentSequence)
	suite.Require().Len(exported.Pools, 1)
	suite.Require().Len(exported.Orders, 3)

	k2, ctx2, _ := keepertest.SequencerKeeper(suite.T())
	suite.Require().NoError(k2.InitGenesis(ctx2, *exported))

	reexported, err := k2.ExportGenesis(ctx2)
	suite.Require().NoError(err)
	suite.Require().Equal(exported, reexported)

	// Pending indexes are rebuilt from the order statuses.
	head, found, err := k2.PoolQueueHead(ctx2, testPool)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(third.Sequence, head.Sequence)

	pending, err := k2.GetPendingOrders(ctx2, 0)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Require().Equal(uint64(1), k2.PendingOrderCount(ctx2))
	suite.Require().Equal(float64(1), k2.PendingGaugeValue())

	// The counter resumes where it left off.
	next, err := k2.SubmitOrderLite(ctx2, alice, testPool, 10, 1, true, testAsset0)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(4), next)
}

func TestInitGenesisRejectsInvalidState(t *testing.T) {
	k, ctx, _ := keepertest.SequencerKeeper(t)

	gs := types.DefaultGenesis()
	gs.Params.Engine = ""
	require.Error(t, k.InitGenesis(ctx, *gs))

	gs = types.DefaultGenesis()
	gs.State = &types.SequencerState{
		CurrentSequence: 1,
		Admin:           admin.String(),
		Relayers:        []string{},
		MaxRelayers:     4,
	}
	gs.Orders = []types.Order{{
		Sequence:         2,
		Owner:            alice.String(),
		PoolID:           testPool,
		AmountIn:         1,
		MinAmountOut:     1,
		SourceAsset:      testAsset0,
		DestinationAsset: testAsset1,
	}}
	require.Error(t, k.InitGenesis(ctx, *gs))
}
