package types_test

import (
	"time"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ConsensusState = (*mockConsensusState)(nil)

type mockConsensusState struct {
	Timestamp uint64
	Root      []byte
}

func (cs mockConsensusState) ClientType() string { return "00-mock" }
func (cs mockConsensusState) GetRoot() []byte { return cs.Root }
func (cs mockConsensusState) GetTimestamp() uint64 { return cs.Timestamp }
func (cs mockConsensusState) ValidateBasic() error { return nil }

func unixTimestamp(sec int64) uint64 {
	return types.TimeToTimestamp(time.Unix(sec, 0))
}

func (suite *TypesTestSuite) TestHeaderPreconditions() {
	var (
		preconditions types.HeaderPreconditions
		now           time.Time
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"trusted consensus state not found",
			func() {
				preconditions.TrustedState = nil
			},
			types.ErrConsensusStateNotFound,
		},
		{
			"revision number mismatch",
			func() {
				preconditions.Height = types.NewHeight(1, 101)
			},
			types.ErrRevisionNumberMismatch,
		},
		{
			"height equal to trusted height",
			func() {
				preconditions.Height = types.NewHeight(0, 100)
			},
			types.ErrSignedHeaderHeightMustBeMoreRecent,
		},
		{
			"height lower than trusted height",
			func() {
				preconditions.Height = types.NewHeight(0, 99)
			},
			types.ErrSignedHeaderHeightMustBeMoreRecent,
		},
		{
			"timestamp before trusted timestamp",
			func() {
				preconditions.Timestamp = time.Unix(999, 0)
			},
			types.ErrSignedHeaderTimestampMustBeMoreRecent,
		},
		{
			"timestamp equal to trusted timestamp",
			func() {
				preconditions.Timestamp = time.Unix(1000, 0)
			},
			types.ErrSignedHeaderTimestampMustBeMoreRecent,
		},
		{
			"timestamp beyond max clock drift",
			func() {
				preconditions.Timestamp = now.Add(preconditions.MaxClockDrift + time.Second)
			},
			types.ErrSignedHeaderCannotExceedMaxClockDrift,
		},
		{
			"timestamp exactly at max clock drift",
			func() {
				preconditions.Timestamp = now.Add(preconditions.MaxClockDrift)
			},
			nil,
		},
		{
			"trusted consensus state expired",
			func() {
				now = time.Unix(1600, 0)
				preconditions.Timestamp = time.Unix(1001, 0)
			},
			types.ErrTrustingPeriodExpired,
		},
		{
			"trusted consensus state expires exactly now",
			func() {
				now = time.Unix(1500, 0)
			},
			types.ErrTrustingPeriodExpired,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			now = time.Unix(1200, 0)
			preconditions = types.HeaderPreconditions{
				TrustedHeight:  types.NewHeight(0, 100),
				TrustedState:   mockConsensusState{Timestamp: unixTimestamp(1000)},
				Height:         types.NewHeight(0, 101),
				Timestamp:      time.Unix(1001, 0),
				TrustingPeriod: 500 * time.Second,
				MaxClockDrift:  10 * time.Second,
			}

			tc.malleate()

			err := preconditions.Check(now)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TypesTestSuite) TestIsExpired() {
	trusted := unixTimestamp(1000)

	suite.Require().False(types.IsExpired(trusted, 500*time.Second, time.Unix(1499, 0)))
	suite.Require().True(types.IsExpired(trusted, 500*time.Second, time.Unix(1500, 0)))
	suite.Require().True(types.IsExpired(trusted, 500*time.Second, time.Unix(1600, 0)))
}
