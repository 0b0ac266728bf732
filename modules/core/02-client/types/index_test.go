package types_test

import (
	"bytes"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
)

func (suite *TypesTestSuite) TestTrustedHeightIndexNeighbours() {
	index := types.NewTrustedHeightIndex(suite.store)

	// inserted out of order, the index must still be ordered by height
	index.Insert(types.NewHeight(1, 10), 100)
	index.Insert(types.NewHeight(1, 30), 300)
	index.Insert(types.NewHeight(0, 50), 50)
	index.Insert(types.NewHeight(1, 20), 200)

	testCases := []struct {
		name                 string
		height               types.Height
		expPrev, expNext     types.Height
		prevFound, nextFound bool
		prevTime, nextTime   uint64
	}{
		{"between entries", types.NewHeight(1, 15), types.NewHeight(1, 10), types.NewHeight(1, 20), true, true, 100, 200},
		{"exact match is excluded", types.NewHeight(1, 20), types.NewHeight(1, 10), types.NewHeight(1, 30), true, true, 100, 300},
		{"lower revision orders first", types.NewHeight(1, 1), types.NewHeight(0, 50), types.NewHeight(1, 10), true, true, 50, 100},
		{"before all entries", types.NewHeight(0, 1), types.Height{}, types.NewHeight(0, 50), false, true, 0, 50},
		{"after all entries", types.NewHeight(2, 0), types.NewHeight(1, 30), types.Height{}, true, false, 300, 0},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			prev, prevTime, found := index.Prev(tc.height)
			suite.Require().Equal(tc.prevFound, found)
			suite.Require().Equal(tc.expPrev, prev)
			suite.Require().Equal(tc.prevTime, prevTime)

			next, nextTime, found := index.Next(tc.height)
			suite.Require().Equal(tc.nextFound, found)
			suite.Require().Equal(tc.expNext, next)
			suite.Require().Equal(tc.nextTime, nextTime)
		})
	}
}

func (suite *TypesTestSuite) TestTrustedHeightIndexDelete() {
	index := types.NewTrustedHeightIndex(suite.store)
	index.Insert(types.NewHeight(1, 10), 100)
	index.Insert(types.NewHeight(1, 20), 200)

	index.Delete(types.NewHeight(1, 10))

	_, found := index.Get(types.NewHeight(1, 10))
	suite.Require().False(found)
	_, _, found = index.Prev(types.NewHeight(1, 20))
	suite.Require().False(found)

	height, found := index.LatestHeightAtOrBefore(150)
	suite.Require().False(found, "time entry of the deleted height must be removed, got %s", height)
}

func (suite *TypesTestSuite) TestTrustedHeightIndexAscending() {
	index := types.NewTrustedHeightIndex(suite.store)
	for i := uint64(5); i > 0; i-- {
		index.Insert(types.NewHeight(1, i), i*10)
	}

	var heights []uint64
	index.Ascending(func(height types.Height, timestamp uint64) bool {
		heights = append(heights, height.RevisionHeight)
		suite.Require().Equal(height.RevisionHeight*10, timestamp)
		return height.RevisionHeight == 3
	})

	suite.Require().Equal([]uint64{1, 2, 3}, heights)
}

func (suite *TypesTestSuite) TestLatestHeightAtOrBefore() {
	index := types.NewTrustedHeightIndex(suite.store)
	index.Insert(types.NewHeight(1, 10), 100)
	index.Insert(types.NewHeight(1, 20), 200)
	index.Insert(types.NewHeight(1, 30), 300)

	height, found := index.LatestHeightAtOrBefore(200)
	suite.Require().True(found)
	suite.Require().Equal(types.NewHeight(1, 20), height)

	height, found = index.LatestHeightAtOrBefore(299)
	suite.Require().True(found)
	suite.Require().Equal(types.NewHeight(1, 20), height)

	height, found = index.LatestHeightAtOrBefore(^uint64(0))
	suite.Require().True(found)
	suite.Require().Equal(types.NewHeight(1, 30), height)

	_, found = index.LatestHeightAtOrBefore(99)
	suite.Require().False(found)
}

func (suite *TypesTestSuite) TestIterationKeyOrdering() {
	low := types.IterationKey(types.NewHeight(0, 255))
	high := types.IterationKey(types.NewHeight(0, 256))
	suite.Require().Equal(-1, bytes.Compare(low, high))

	lowRevision := types.IterationKey(types.NewHeight(0, 1000))
	highRevision := types.IterationKey(types.NewHeight(1, 0))
	suite.Require().Equal(-1, bytes.Compare(lowRevision, highRevision))
}
