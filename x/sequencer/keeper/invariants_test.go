package keeper_test

import (
	"encoding/json"

	keepertest "github.com/continuum-labs/continuum/testutil/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/keeper"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

func (suite *KeeperTestSuite) TestInvariantsHold() {
	first := suite.submit(alice, 1000, 900, testAsset0)
	suite.submit(alice, 1000, 900, testAsset0)
	_, err := suite.keeper.ExecuteOrder(suite.ctx, relayer, testPool, first.Sequence, keepertest.PoolPassThrough(testPool))
	suite.Require().NoError(err)

	msg, broken := keeper.AllInvariants(suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestPoolAuthorityInvariantBroken() {
	store := suite.ctx.KVStore(suite.keeper.StoreKey())
	pool, err := suite.keeper.GetPoolRegistration(suite.ctx, testPool)
	suite.Require().NoError(err)

	pool.DelegatedAuthority = types.DeriveDelegatedAuthority("other").String()
	bz, err := json.Marshal(pool)
	suite.Require().NoError(err)
	store.Set(types.PoolRegistrationKey(testPool), bz)

	_, broken := keeper.PoolAuthorityInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
}

func (suite *KeeperTestSuite) TestPendingCountInvariantBroken() {
	suite.submit(alice, 1000, 900, testAsset0)

	store := suite.ctx.KVStore(suite.keeper.StoreKey())
	store.Set(types.PendingCountKey, []byte{0, 0, 0, 0, 0, 0, 0, 5})

	msg, broken := keeper.PendingIndexInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "pending count 5")
}

func (suite *KeeperTestSuite) TestPendingIndexInvariantBroken() {
	order := suite.submit(alice, 1000, 900, testAsset0)

	// Drop the pending index entry behind the keeper's back.
	store := suite.ctx.KVStore(suite.keeper.StoreKey())
	store.Delete(types.PendingOrderKey(order.Sequence))

	_, broken := keeper.PendingIndexInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
}
