package types_test

import (
	"math"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
)

func (suite *TypesTestSuite) TestCompareHeights() {
	testCases := []struct {
		name        string
		height1     types.Height
		height2     types.Height
		compareSign int64
	}{
		{"revision number 1 is lesser", types.NewHeight(1, 3), types.NewHeight(3, 4), -1},
		{"revision number 1 is greater", types.NewHeight(7, 5), types.NewHeight(4, 5), 1},
		{"revision height 1 is lesser", types.NewHeight(3, 4), types.NewHeight(3, 9), -1},
		{"revision height 1 is greater", types.NewHeight(3, 8), types.NewHeight(3, 3), 1},
		{"revision number is MaxUint64", types.NewHeight(math.MaxUint64, 1), types.NewHeight(0, 1), 1},
		{"revision height is MaxUint64", types.NewHeight(1, math.MaxUint64), types.NewHeight(1, 0), 1},
		{"height is equal", types.NewHeight(4, 4), types.NewHeight(4, 4), 0},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			compare := tc.height1.Compare(tc.height2)

			switch tc.compareSign {
			case -1:
				suite.Require().True(compare == -1)
				suite.Require().True(tc.height1.LT(tc.height2))
				suite.Require().True(tc.height1.LTE(tc.height2))
				suite.Require().False(tc.height1.GTE(tc.height2))
			case 0:
				suite.Require().True(compare == 0)
				suite.Require().True(tc.height1.EQ(tc.height2))
				suite.Require().True(tc.height1.LTE(tc.height2))
				suite.Require().True(tc.height1.GTE(tc.height2))
			case 1:
				suite.Require().True(compare == 1)
				suite.Require().True(tc.height1.GT(tc.height2))
				suite.Require().True(tc.height1.GTE(tc.height2))
				suite.Require().False(tc.height1.LTE(tc.height2))
			}
		})
	}
}

func (suite *TypesTestSuite) TestDecrement() {
	validDecrement := types.NewHeight(3, 3)
	expected := types.NewHeight(3, 2)

	actual, success := validDecrement.Decrement()
	suite.Require().Equal(expected, actual, "decrementing %s did not return expected height: %s. got %s",
		validDecrement, expected, actual)
	suite.Require().True(success, "decrement failed unexpectedly")

	invalidDecrement := types.NewHeight(3, 0)
	actual, success = invalidDecrement.Decrement()

	suite.Require().Equal(types.ZeroHeight(), actual, "invalid decrement returned non-zero height: %s", actual)
	suite.Require().False(success, "invalid decrement passed")
}

func (suite *TypesTestSuite) TestIncrement() {
	suite.Require().Equal(types.NewHeight(2, 9), types.NewHeight(2, 8).Increment())
}

func (suite *TypesTestSuite) TestString() {
	_, err := types.ParseHeight("height")
	suite.Require().Error(err, "invalid height string passed")

	_, err = types.ParseHeight("revision-10")
	suite.Require().Error(err, "invalid revision string passed")

	_, err = types.ParseHeight("3-height")
	suite.Require().Error(err, "invalid revision-height string passed")

	height := types.NewHeight(3, 4)
	recovered, err := types.ParseHeight(height.String())

	suite.Require().NoError(err, "valid height string could not be parsed")
	suite.Require().Equal(height, recovered, "recovered height not equal to original height")

	parse, err := types.ParseHeight("3-10")
	suite.Require().NoError(err, "parse err")
	suite.Require().Equal(types.NewHeight(3, 10), parse, "parse height returns wrong height")
}

func (suite *TypesTestSuite) TestParseChainID() {
	cases := []struct {
		chainID   string
		revision  uint64
		formatted bool
	}{
		{"gaiamainnet-3", 3, true},
		{"a-1", 1, true},
		{"gaia-mainnet-40", 40, true},
		{"gaiamainnet-3-39", 39, true},
		{"gaiamainnet--", 0, false},
		{"gaiamainnet-03", 0, false},
		{"gaiamainnet--4", 0, false},
		{"gaiamainnet-3.4", 0, false},
		{"gaiamainnet", 0, false},
		{"a--1", 0, false},
		{"-1", 0, false},
		{"--1", 0, false},
	}

	for _, tc := range cases {
		suite.Require().Equal(tc.formatted, types.IsRevisionFormat(tc.chainID), "id %s does not match expected format", tc.chainID)

		revision := types.ParseChainID(tc.chainID)
		suite.Require().Equal(tc.revision, revision, "chainID %s returns incorrect revision", tc.chainID)
	}
}

func (suite *TypesTestSuite) TestMustHeight() {
	suite.Require().Equal(types.NewHeight(1, 2), types.MustHeight(types.NewHeight(1, 2)))
	suite.Require().Panics(func() {
		types.MustHeight(nil)
	})
}
