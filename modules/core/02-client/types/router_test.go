package types_test

import (
	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// routeModule satisfies exported.LightClientModule for routing tests, none of its methods are called.
type routeModule struct {
	exported.LightClientModule
}

func (suite *TypesTestSuite) TestAddRoute() {
	var (
		clientType string
		router     *types.Router
	)

	testCases := []struct {
		name     string
		malleate func()
		expPanic bool
	}{
		{
			"success",
			func() {
				clientType = exported.Tendermint
			},
			false,
		},
		{
			"failure: route has already been imported",
			func() {
				clientType = exported.Tendermint
				router.AddRoute(exported.Tendermint, &routeModule{})
			},
			true,
		},
		{
			"failure: router is sealed",
			func() {
				clientType = exported.Ethereum
				router.Seal()
			},
			true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			router = types.NewRouter()

			tc.malleate()

			if tc.expPanic {
				suite.Require().Panics(func() {
					router.AddRoute(clientType, &routeModule{})
				})
			} else {
				router.AddRoute(clientType, &routeModule{})
				suite.Require().True(router.HasRoute(clientType))
			}
		})
	}
}

func (suite *TypesTestSuite) TestHasGetRoute() {
	router := types.NewRouter()
	module := &routeModule{}
	router.AddRoute(exported.Tendermint, module)
	router.Seal()

	suite.Require().True(router.Sealed())
	suite.Require().Panics(router.Seal)

	route, ok := router.GetRoute(exported.Tendermint)
	suite.Require().True(ok)
	suite.Require().Same(module, route)

	for _, clientType := range []string{exported.Arbitrum, "invalid-client-type", ""} {
		suite.Require().False(router.HasRoute(clientType))
		route, ok := router.GetRoute(clientType)
		suite.Require().False(ok)
		suite.Require().Nil(route)
	}
}
