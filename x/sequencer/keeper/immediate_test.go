package keeper_test

import (
	keepertest "github.com/continuum-labs/continuum/testutil/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

func ownerRefs(owner string, src, dst string) []types.AccountMeta {
	return []types.AccountMeta{
		types.NewAccountMeta(owner, src),
		types.NewAccountMeta(owner, dst),
		keepertest.PoolRef(testPool),
	}
}

func (suite *KeeperTestSuite) TestSwapImmediate() {
	suite.freshEvents()
	res, err := suite.keeper.SwapImmediate(suite.ctx, relayer, testPool, 1000, 900, true, ownerRefs(alice.String(), testAsset0, testAsset1))
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), res.Sequence)
	suite.Require().Equal(uint64(999), res.AmountOut)
	suite.Require().Equal(alice.String(), res.Owner)
	suite.Require().Equal(uint64(1), suite.currentSequence())

	suite.Require().Equal(int64(99_000), suite.balance(alice, testAsset0))
	suite.Require().Equal(int64(999), suite.balance(alice, testAsset1))

	events := suite.ctx.EventManager().Events()
	suite.Require().True(hasEvent(events, types.EventTypeSwapExecuted))
	suite.Require().False(hasEvent(events, types.EventTypeOrderSubmitted))

	_, err = suite.keeper.GetOrderBySequence(suite.ctx, res.Sequence)
	suite.Require().ErrorIs(err, types.ErrOrderNotFound)

	call := suite.amm.Calls[len(suite.amm.Calls)-1]
	suite.Require().Len(call.Accounts, 4)
	suite.Require().True(call.Accounts[0].IsSigner)
	suite.Require().Equal(alice.String(), call.Accounts[1].Address)
	suite.Require().Equal(testAsset0, call.Accounts[1].Denom)
	suite.Require().Equal(testAsset1, call.Accounts[2].Denom)
}

func (suite *KeeperTestSuite) TestSwapImmediateReverseDirection() {
	res, err := suite.keeper.SwapImmediate(suite.ctx, relayer, testPool, 2000, 1, true, ownerRefs(bob.String(), testAsset1, testAsset0))
	suite.Require().NoError(err)
	suite.Require().Equal(testAsset0, res.DestinationAsset)
	suite.Require().Equal(int64(res.AmountOut), suite.balance(bob, testAsset0))
}

func (suite *KeeperTestSuite) TestSwapImmediateRejections() {
	tests := []struct {
		name        string
		setup       func()
		caller      string
		passThrough []types.AccountMeta
		err         error
	}{
		{
			name:        "not a relayer",
			caller:      "bob",
			passThrough: ownerRefs(alice.String(), testAsset0, testAsset1),
			err:         types.ErrUnauthorized,
		},
		{
			name:        "paused",
			setup:       func() { suite.Require().NoError(suite.keeper.SetPause(suite.ctx, admin, true)) },
			passThrough: ownerRefs(alice.String(), testAsset0, testAsset1),
			err:         types.ErrEmergencyPause,
		},
		{
			name:        "mismatched owners",
			passThrough: []types.AccountMeta{types.NewAccountMeta(alice.String(), testAsset0), types.NewAccountMeta(bob.String(), testAsset1), keepertest.PoolRef(testPool)},
			err:         types.ErrInvalidPassThrough,
		},
		{
			name:        "same asset both sides",
			passThrough: ownerRefs(alice.String(), testAsset0, testAsset0),
			err:         types.ErrInvalidPassThrough,
		},
		{
			name:        "missing pool reference",
			passThrough: ownerRefs(alice.String(), testAsset0, testAsset1)[:2],
			err:         types.ErrInvalidPassThrough,
		},
		{
			name:        "owner not an address",
			passThrough: ownerRefs("vault", testAsset0, testAsset1),
			err:         types.ErrInvalidAddress,
		},
		{
			name:        "slippage",
			setup:       func() { suite.amm.IgnoreLimits = true },
			passThrough: ownerRefs(alice.String(), testAsset0, testAsset1),
			err:         types.ErrSlippageExceeded,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}
			caller := relayer
			if tc.caller == "bob" {
				caller = bob
			}
			_, err := suite.keeper.SwapImmediate(suite.ctx, caller, testPool, 1000, 1000, true, tc.passThrough)
			suite.Require().ErrorIs(err, tc.err)
			suite.Require().Equal(uint64(0), suite.currentSequence())
			suite.Require().Equal(int64(100_000), suite.balance(alice, testAsset0))
		})
	}
}
