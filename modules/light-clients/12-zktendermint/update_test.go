package zktendermint_test

import (
	"time"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	zktm "github.com/ComposableFi/light-clients/modules/light-clients/12-zktendermint"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

func (suite *ZKTendermintTestSuite) TestVerifyHeader() {
	var header *zktm.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: adjacent header",
			func() {},
			nil,
		},
		{
			"success: non-adjacent header",
			func() {
				header = suite.header(height, 150, suite.consensusTime.Add(time.Minute))
			},
			nil,
		},
		{
			"trusted consensus state not found",
			func() {
				header = suite.header(clienttypes.NewHeight(0, 99), 101, suite.consensusTime.Add(time.Minute))
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"header revision does not match trusted revision",
			func() {
				header.Height = clienttypes.NewHeight(1, 101)
				header = suite.setup.ProveHeader(chainID, suite.consensusState(), header)
			},
			clienttypes.ErrRevisionNumberMismatch,
		},
		{
			"header height equal to trusted height",
			func() {
				header = suite.header(height, height.RevisionHeight, suite.consensusTime.Add(time.Minute))
			},
			clienttypes.ErrSignedHeaderHeightMustBeMoreRecent,
		},
		{
			"header timestamp equal to trusted timestamp",
			func() {
				header = suite.header(height, 101, suite.consensusTime)
			},
			clienttypes.ErrSignedHeaderTimestampMustBeMoreRecent,
		},
		{
			"header timestamp beyond max clock drift",
			func() {
				header = suite.header(height, 101, suite.clock.Now().Add(ibctesting.MaxClockDrift+time.Second))
			},
			clienttypes.ErrSignedHeaderCannotExceedMaxClockDrift,
		},
		{
			"trusted consensus state expired",
			func() {
				suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
			},
			clienttypes.ErrTrustingPeriodExpired,
		},
		{
			"app hash differs from the proven one",
			func() {
				header.AppHash = []byte("tampered app hash")
			},
			zktm.ErrInvalidZKP,
		},
		{
			"next validators hash differs from the proven one",
			func() {
				header.NextValidatorsHash = otherValsHash
			},
			zktm.ErrInvalidZKP,
		},
		{
			"timestamp differs from the proven one",
			func() {
				header.Timestamp++
			},
			zktm.ErrInvalidZKP,
		},
		{
			"proof generated for another verifying key",
			func() {
				header = ibctesting.NewGroth16Setup(2).ProveHeader(chainID, suite.consensusState(), header)
			},
			zktm.ErrInvalidZKP,
		},
		{
			"proof generated for another chain",
			func() {
				header = suite.setup.ProveHeader(ibctesting.ChainIDRevision1, suite.consensusState(), header)
			},
			zktm.ErrInvalidZKP,
		},
		{
			"proof generated against another trusted validator set",
			func() {
				trusted := suite.consensusState()
				trusted.NextValidatorsHash = otherValsHash
				header = suite.setup.ProveHeader(chainID, trusted, header)
			},
			zktm.ErrInvalidZKP,
		},
		{
			"proof point not on the curve",
			func() {
				header.Proof[63] ^= 0x01
			},
			zktm.ErrInvalidZKP,
		},
		{
			"proof swapped for its own A and C",
			func() {
				copy(header.Proof[:64], header.Proof[192:])
			},
			zktm.ErrInvalidZKP,
		},
		{
			"client is frozen",
			func() {
				suite.lightClientModule.UpdateStateOnMisbehaviour(suite.ctx, clientID, nil)
			},
			clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			header = suite.header(height, 101, suite.consensusTime.Add(time.Minute))

			tc.malleate()

			err := suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, header)

			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *ZKTendermintTestSuite) TestVerifyHeaderStateUpdate() {
	clientState := suite.clientState()

	header := suite.header(height, 110, suite.consensusTime.Add(time.Minute))
	update, err := clientState.VerifyHeader(suite.clientStore(), suite.clock.Now(), header)
	suite.Require().NoError(err)
	suite.Require().Equal(header.ConsensusState(), update.ConsensusState)
	suite.Require().NotNil(update.ClientState)
	suite.Require().Equal(header.Height, update.ClientState.GetLatestHeight())

	suite.updateClient(header)

	// filling a gap below the latest height does not advance the client
	header = suite.header(height, 105, suite.consensusTime.Add(30*time.Second))
	update, err = suite.clientState().VerifyHeader(suite.clientStore(), suite.clock.Now(), header)
	suite.Require().NoError(err)
	suite.Require().Nil(update.ClientState)
}

func (suite *ZKTendermintTestSuite) TestUpdateState() {
	header := suite.header(height, 101, suite.consensusTime.Add(time.Minute))
	suite.updateClient(header)

	suite.Require().Equal(header.Height, suite.lightClientModule.LatestHeight(suite.ctx, clientID))

	consState, found := zktm.GetConsensusState(suite.clientStore(), header.Height)
	suite.Require().True(found)
	suite.Require().Equal(header.ConsensusState(), consState)

	// a header built on the new consensus state verifies
	next := suite.header(header.Height, 102, suite.consensusTime.Add(2*time.Minute))
	suite.updateClient(next)
	suite.Require().Equal(next.Height, suite.lightClientModule.LatestHeight(suite.ctx, clientID))
}

func (suite *ZKTendermintTestSuite) TestUpdateStateIdempotent() {
	header := suite.header(height, 101, suite.consensusTime.Add(time.Minute))
	suite.updateClient(header)

	processedTime, found := clienttypes.GetProcessedTime(suite.clientStore(), header.Height)
	suite.Require().True(found)

	suite.clock.Advance(time.Minute)
	heights := suite.lightClientModule.UpdateState(suite.ctx, clientID, header)
	suite.Require().Equal([]exported.Height{header.Height}, heights)

	reprocessed, found := clienttypes.GetProcessedTime(suite.clientStore(), header.Height)
	suite.Require().True(found)
	suite.Require().Equal(processedTime, reprocessed)
}

func (suite *ZKTendermintTestSuite) TestUpdateStatePrunesExpiredConsensusStates() {
	header := suite.header(height, 101, suite.consensusTime.Add(time.Minute))
	suite.updateClient(header)

	// the initial consensus state expires, the one at 101 is still trusted
	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod).Add(30 * time.Second))
	next := suite.header(header.Height, 102, suite.clock.Now())
	suite.updateClient(next)

	suite.Require().False(clienttypes.HasConsensusState(suite.clientStore(), height))
	suite.Require().True(clienttypes.HasConsensusState(suite.clientStore(), header.Height))
	suite.Require().True(clienttypes.HasConsensusState(suite.clientStore(), next.Height))

	_, found := clienttypes.NewTrustedHeightIndex(suite.clientStore()).Get(height)
	suite.Require().False(found)
}

func (suite *ZKTendermintTestSuite) TestUpdateStateIgnoresMisbehaviour() {
	header := suite.header(height, 101, suite.consensusTime.Add(time.Minute))
	misbehaviour := zktm.NewMisbehaviour(clientID, header, header)

	heights := suite.lightClientModule.UpdateState(suite.ctx, clientID, misbehaviour)
	suite.Require().Empty(heights)
	suite.Require().Equal(height, suite.lightClientModule.LatestHeight(suite.ctx, clientID))
}
