package ethereum_test

import (
	"bytes"
	"time"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ethereum "github.com/ComposableFi/light-clients/modules/light-clients/13-ethereum"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

func (suite *EthereumTestSuite) TestVerifyHeader() {
	var header *ethereum.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: update within the trusted period",
			func() {},
			nil,
		},
		{
			"success: update signed by the next sync committee",
			func() {
				header = suite.update(height, 130)
			},
			nil,
		},
		{
			"success: two thirds participation",
			func() {
				header = suite.chain.Update(height, 110, 112, 113, 342, suite.stateRoot)
			},
			nil,
		},
		{
			"participation below two thirds",
			func() {
				header = suite.chain.Update(height, 110, 112, 113, 341, suite.stateRoot)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"finalized slot starting beyond the timestamp range",
			func() {
				header.FinalizedHeader.Slot = 1 << 60
			},
			ethereum.ErrInvalidHeaderHeight,
		},
		{
			"trusted consensus state not found",
			func() {
				header = suite.update(clienttypes.NewHeight(0, 99), 110)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"finalized slot equal to trusted slot",
			func() {
				header = suite.update(height, trustedSlot)
			},
			clienttypes.ErrSignedHeaderHeightMustBeMoreRecent,
		},
		{
			"finalized slot beyond max clock drift",
			func() {
				suite.clock.SetTime(ibctesting.SlotTime(104))
			},
			clienttypes.ErrSignedHeaderCannotExceedMaxClockDrift,
		},
		{
			"trusted consensus state expired",
			func() {
				suite.clock.SetTime(ibctesting.SlotTime(trustedSlot).Add(ibctesting.BeaconTrustingPeriod + time.Nanosecond))
			},
			clienttypes.ErrTrustingPeriodExpired,
		},
		{
			"signature period skips a period",
			func() {
				header = suite.update(height, 200)
			},
			ethereum.ErrInvalidSyncCommitteePeriod,
		},
		{
			"attested and finalized headers in different periods",
			func() {
				header = suite.chain.Update(height, 126, 130, 131, participants, suite.stateRoot)
			},
			ethereum.ErrInvalidSyncCommitteePeriod,
		},
		{
			"signed by an untrusted committee",
			func() {
				header.SyncCommittee = ibctesting.SyncCommittee(5)
			},
			clienttypes.ErrTrustedValidatorsMismatch,
		},
		{
			"finality branch does not prove the finalized header",
			func() {
				header.FinalityBranch[0] = bytes.Repeat([]byte{0x01}, ethereum.RootSize)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"finalized header differs from the proven one",
			func() {
				header.FinalizedHeader.ProposerIndex++
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"next sync committee differs from the proven one",
			func() {
				header.NextSyncCommittee = ibctesting.SyncCommittee(7)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"execution state root differs from the proven one",
			func() {
				header.ExecutionStateRoot = common.HexToHash("0x01").Bytes()
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"attested header differs from the signed one",
			func() {
				header.AttestedHeader.ParentRoot = bytes.Repeat([]byte{0x01}, ethereum.RootSize)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"participation bits differ from the signers",
			func() {
				header.SyncAggregate.SyncCommitteeBits.SetBitAt(participants, true)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"signed for another network",
			func() {
				other := ibctesting.NewBeaconChain(suite.T())
				other.GenesisValidatorsRoot = bytes.Repeat([]byte{0x01}, ethereum.RootSize)
				other.Sign(header, participants)
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"signed with the fork version of a previous fork",
			func() {
				header = suite.update(height, 130)

				previous := ibctesting.NewBeaconChain(suite.T())
				previous.ForkParameters.Forks = previous.ForkParameters.Forks[:1]
				previous.Sign(header, participants)
			},
			ethereum.ErrInvalidUpdateProof,
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
			header = suite.update(height, 110)

			tc.malleate()

			err := suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, header)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *EthereumTestSuite) TestVerifyHeaderStateUpdate() {
	clientState := suite.clientState()

	// within the trusted period the committees are kept
	update, err := clientState.VerifyHeader(suite.clientStore(), suite.clock.Now(), suite.update(height, 110))
	suite.Require().NoError(err)

	expected := suite.chain.ConsensusState(110, suite.stateRoot)
	consState, ok := update.ConsensusState.(*ethereum.ConsensusState)
	suite.Require().True(ok)
	suite.Require().Equal(expected.Slot, consState.Slot)
	suite.Require().Equal(expected.Timestamp, consState.Timestamp)
	suite.Require().Equal(expected.StateRoot, consState.StateRoot)
	suite.Require().Equal(expected.CurrentSyncCommitteeRoot, consState.CurrentSyncCommitteeRoot)
	suite.Require().Equal(expected.NextSyncCommitteeRoot, consState.NextSyncCommitteeRoot)

	newClientState, ok := update.ClientState.(*ethereum.ClientState)
	suite.Require().True(ok)
	suite.Require().Equal(clienttypes.NewHeight(0, 110), newClientState.LatestHeight)

	// crossing into the next period rotates the committees
	update, err = clientState.VerifyHeader(suite.clientStore(), suite.clock.Now(), suite.update(height, 130))
	suite.Require().NoError(err)

	consState, ok = update.ConsensusState.(*ethereum.ConsensusState)
	suite.Require().True(ok)
	current := ibctesting.SyncCommittee(2).HashTreeRoot()
	next := ibctesting.SyncCommittee(3).HashTreeRoot()
	suite.Require().Equal(current[:], consState.CurrentSyncCommitteeRoot)
	suite.Require().Equal(next[:], consState.NextSyncCommitteeRoot)
}

func (suite *EthereumTestSuite) TestUpdateState() {
	header := suite.update(height, 130)
	suite.updateClient(header)

	newHeight := clienttypes.NewHeight(0, 130)
	suite.Require().Equal(newHeight, suite.clientState().LatestHeight)
	suite.Require().Equal(newHeight, suite.lightClientModule.LatestHeight(suite.ctx, clientID))

	consState, found := ethereum.GetConsensusState(suite.clientStore(), newHeight)
	suite.Require().True(found)
	suite.Require().Equal(suite.stateRoot.Bytes(), consState.StateRoot)
	suite.Require().Equal(clienttypes.TimeToTimestamp(ibctesting.SlotTime(130)), consState.Timestamp)

	// the next period can now be followed from the new consensus state
	suite.updateClient(suite.update(newHeight, 200))
	suite.Require().Equal(clienttypes.NewHeight(0, 200), suite.clientState().LatestHeight)

	// an older update is stored without moving the latest height back
	suite.updateClient(suite.update(height, 110))
	suite.Require().Equal(clienttypes.NewHeight(0, 200), suite.clientState().LatestHeight)
	suite.Require().True(clienttypes.HasConsensusState(suite.clientStore(), clienttypes.NewHeight(0, 110)))
}

func (suite *EthereumTestSuite) TestUpdateStateIdempotent() {
	header := suite.update(height, 110)
	suite.updateClient(header)

	newHeight := clienttypes.NewHeight(0, 110)
	processedTime, found := clienttypes.GetProcessedTime(suite.clientStore(), newHeight)
	suite.Require().True(found)

	suite.clock.Advance(time.Minute)
	heights := suite.lightClientModule.UpdateState(suite.ctx, clientID, header)
	suite.Require().Equal([]exported.Height{newHeight}, heights)

	reprocessed, found := clienttypes.GetProcessedTime(suite.clientStore(), newHeight)
	suite.Require().True(found)
	suite.Require().Equal(processedTime, reprocessed)
}

func (suite *EthereumTestSuite) TestUpdateStatePrunesExpiredConsensusStates() {
	suite.updateClient(suite.update(height, 110))

	// the initial consensus state expires while the one at slot 110 is still trusted
	suite.clock.SetTime(ibctesting.SlotTime(trustedSlot).Add(ibctesting.BeaconTrustingPeriod + 10*time.Second))
	suite.updateClient(suite.update(clienttypes.NewHeight(0, 110), 120))

	suite.Require().False(clienttypes.HasConsensusState(suite.clientStore(), height))
	suite.Require().True(clienttypes.HasConsensusState(suite.clientStore(), clienttypes.NewHeight(0, 110)))
	suite.Require().True(clienttypes.HasConsensusState(suite.clientStore(), clienttypes.NewHeight(0, 120)))
}

func (suite *EthereumTestSuite) TestUpdateStateIgnoresMisbehaviour() {
	misbehaviour := ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.update(height, 110))

	heights := suite.lightClientModule.UpdateState(suite.ctx, clientID, misbehaviour)
	suite.Require().Empty(heights)
	suite.Require().Equal(height, suite.clientState().LatestHeight)
}

func (suite *EthereumTestSuite) TestCheckForMisbehaviourSlotOverflow() {
	header := suite.update(height, 110)
	header.FinalizedHeader.Slot = 1 << 60
	suite.Require().False(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, header))

	misbehaviour := ethereum.NewMisbehaviour(clientID, header, suite.update(height, 110))
	suite.Require().False(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, misbehaviour))

	err := suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, misbehaviour)
	suite.Require().ErrorIs(err, ethereum.ErrInvalidHeaderHeight)
}
