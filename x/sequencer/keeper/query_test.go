package keeper_test

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

func (suite *KeeperTestSuite) TestQueries() {
	first := suite.submit(alice, 1000, 900, testAsset0)
	suite.submit(bob, 1000, 1, testAsset1)

	params, err := suite.keeper.Params(suite.ctx, &types.QueryParamsRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal(types.DefaultParams(), params.Params)

	state, err := suite.keeper.State(suite.ctx, &types.QueryStateRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), state.State.CurrentSequence)

	pool, err := suite.keeper.Pool(suite.ctx, &types.QueryPoolRequest{PoolID: testPool})
	suite.Require().NoError(err)
	suite.Require().Equal(testAsset0, pool.Pool.Asset0)

	pools, err := suite.keeper.Pools(suite.ctx, &types.QueryPoolsRequest{})
	suite.Require().NoError(err)
	suite.Require().Len(pools.Pools, 1)

	order, err := suite.keeper.Order(suite.ctx, &types.QueryOrderRequest{Sequence: first.Sequence})
	suite.Require().NoError(err)
	suite.Require().Equal(alice.String(), order.Order.Owner)

	byOwner, err := suite.keeper.OrdersByOwner(suite.ctx, &types.QueryOrdersByOwnerRequest{Owner: bob.String()})
	suite.Require().NoError(err)
	suite.Require().Len(byOwner.Orders, 1)

	pending, err := suite.keeper.PendingOrders(suite.ctx, &types.QueryPendingOrdersRequest{Limit: 1})
	suite.Require().NoError(err)
	suite.Require().Len(pending.Orders, 1)
	suite.Require().Equal(first.Sequence, pending.Orders[0].Sequence)

	head, err := suite.keeper.QueueHead(suite.ctx, &types.QueryQueueHeadRequest{PoolID: testPool})
	suite.Require().NoError(err)
	suite.Require().True(head.Found)
	suite.Require().Equal(first.Sequence, head.Order.Sequence)
}

func (suite *KeeperTestSuite) TestQueryErrors() {
	_, err := suite.keeper.Params(suite.ctx, nil)
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = suite.keeper.Order(suite.ctx, &types.QueryOrderRequest{Sequence: 42})
	suite.Require().Equal(codes.NotFound, status.Code(err))

	_, err = suite.keeper.Pool(suite.ctx, &types.QueryPoolRequest{PoolID: "missing"})
	suite.Require().Equal(codes.NotFound, status.Code(err))

	_, err = suite.keeper.Order(suite.ctx, &types.QueryOrderRequest{})
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = suite.keeper.OrdersByOwner(suite.ctx, &types.QueryOrdersByOwnerRequest{Owner: "bad"})
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))
}
