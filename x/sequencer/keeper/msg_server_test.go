package keeper_test

import (
	keepertest "github.com/continuum-labs/continuum/testutil/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

func (suite *KeeperTestSuite) TestMsgServerOrderFlow() {
	ms := keeper.NewMsgServerImpl(suite.keeper)

	submitted, err := ms.SubmitOrder(suite.ctx, &types.MsgSubmitOrder{
		Owner:        alice.String(),
		PoolID:       testPool,
		AmountIn:     1000,
		MinAmountOut: 900,
		IsBaseInput:  true,
		SourceAsset:  testAsset0,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), submitted.Sequence)

	executed, err := ms.ExecuteOrder(suite.ctx, &types.MsgExecuteOrder{
		Executor:         relayer.String(),
		PoolID:           testPool,
		ExpectedSequence: submitted.Sequence,
		PassThrough:      keepertest.PoolPassThrough(testPool),
	})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(999), executed.AmountOut)

	lite, err := ms.SubmitOrderLite(suite.ctx, &types.MsgSubmitOrderLite{
		Owner:        alice.String(),
		PoolID:       testPool,
		AmountIn:     10,
		MinAmountOut: 1,
		IsBaseInput:  true,
		SourceAsset:  testAsset0,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), lite.Sequence)

	swapped, err := ms.SwapImmediate(suite.ctx, &types.MsgSwapImmediate{
		Relayer:      relayer.String(),
		PoolID:       testPool,
		AmountIn:     1000,
		MinAmountOut: 1,
		IsBaseInput:  true,
		PassThrough:  ownerRefs(alice.String(), testAsset0, testAsset1),
	})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(3), swapped.Sequence)
	suite.Require().NotZero(swapped.AmountOut)
}

func (suite *KeeperTestSuite) TestMsgServerCancelAndFail() {
	ms := keeper.NewMsgServerImpl(suite.keeper)
	first := suite.submit(alice, 1000, 900, testAsset0)
	second := suite.submit(alice, 1000, 900, testAsset0)

	_, err := ms.CancelOrder(suite.ctx, &types.MsgCancelOrder{Owner: alice.String(), Sequence: first.Sequence})
	suite.Require().NoError(err)

	_, err = ms.FailOrder(suite.ctx, &types.MsgFailOrder{Executor: relayer.String(), Sequence: second.Sequence, Reason: "pool closed"})
	suite.Require().NoError(err)

	_, err = ms.CancelOrder(suite.ctx, &types.MsgCancelOrder{Owner: alice.String(), Sequence: second.Sequence})
	suite.Require().ErrorIs(err, types.ErrInvalidOrderStatus)
}

func (suite *KeeperTestSuite) TestMsgServerAdmin() {
	ms := keeper.NewMsgServerImpl(suite.keeper)
	newRelayer := keepertest.TestAddr("relayer2")

	_, err := ms.AddRelayer(suite.ctx, &types.MsgAddRelayer{Admin: admin.String(), Relayer: newRelayer.String()})
	suite.Require().NoError(err)
	suite.Require().True(suite.keeper.IsRelayer(suite.ctx, newRelayer))

	_, err = ms.RemoveRelayer(suite.ctx, &types.MsgRemoveRelayer{Admin: admin.String(), Relayer: newRelayer.String()})
	suite.Require().NoError(err)
	suite.Require().False(suite.keeper.IsRelayer(suite.ctx, newRelayer))

	_, err = ms.SetPause(suite.ctx, &types.MsgSetPause{Admin: admin.String(), Paused: true})
	suite.Require().NoError(err)

	_, err = ms.SetPoolActive(suite.ctx, &types.MsgSetPoolActive{Admin: admin.String(), PoolID: testPool, Active: false})
	suite.Require().NoError(err)

	params := types.DefaultParams()
	params.StrictPassThrough = false
	_, err = ms.UpdateParams(suite.ctx, &types.MsgUpdateParams{Admin: admin.String(), Params: params})
	suite.Require().NoError(err)
	suite.Require().False(suite.keeper.GetParams(suite.ctx).StrictPassThrough)

	resp, err := ms.RegisterPool(suite.ctx, &types.MsgRegisterPool{
		Admin:      admin.String(),
		PoolID:     "osmo-usdc",
		Asset0:     "uosmo",
		Asset1:     testAsset1,
		InitParams: types.InitParams{InitAmount0: 1000, InitAmount1: 1000},
		PassThrough: []types.AccountMeta{
			types.NewReadonlyAccountMeta("osmo-usdc", "uosmo"),
			types.NewReadonlyAccountMeta("osmo-usdc", testAsset1),
		},
	})
	suite.Require().NoError(err)
	suite.Require().Equal(types.DeriveDelegatedAuthority("osmo-usdc").String(), resp.DelegatedAuthority)
}

func (suite *KeeperTestSuite) TestMsgServerValidation() {
	ms := keeper.NewMsgServerImpl(suite.keeper)

	_, err := ms.SubmitOrder(suite.ctx, &types.MsgSubmitOrder{Owner: "not-an-address", PoolID: testPool, AmountIn: 1, MinAmountOut: 1, SourceAsset: testAsset0})
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)

	_, err = ms.ExecuteOrder(suite.ctx, &types.MsgExecuteOrder{Executor: relayer.String(), PoolID: testPool, ExpectedSequence: 0})
	suite.Require().ErrorIs(err, types.ErrInvalidSequence)

	_, err = ms.SwapImmediate(suite.ctx, &types.MsgSwapImmediate{Relayer: relayer.String(), PoolID: testPool, AmountIn: 1, MinAmountOut: 1})
	suite.Require().ErrorIs(err, types.ErrInvalidPassThrough)

	_, err = ms.Initialize(suite.ctx, &types.MsgInitialize{Admin: admin.String()})
	suite.Require().ErrorIs(err, types.ErrAlreadyInitialized)
}
