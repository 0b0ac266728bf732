package ethereum_test

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ethereum "github.com/ComposableFi/light-clients/modules/light-clients/13-ethereum"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

var conflictingStateRoot = common.HexToHash("0xc0ff11c7")

// conflictingUpdate returns a signed update of finalizedSlot which finalizes another execution
// state root.
func (suite *EthereumTestSuite) conflictingUpdate(trustedHeight clienttypes.Height, finalizedSlot uint64) *ethereum.Header {
	return suite.chain.Update(trustedHeight, finalizedSlot, finalizedSlot+2, finalizedSlot+3, participants, conflictingStateRoot)
}

func (suite *EthereumTestSuite) TestCheckForMisbehaviourHeader() {
	suite.updateClient(suite.update(height, 110))

	// the same update again is not misbehaviour
	suite.Require().False(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, suite.update(height, 110)))

	// an update attested later, finalizing the same block, is not misbehaviour either
	later := suite.chain.Update(height, 110, 115, 116, participants, suite.stateRoot)
	suite.Require().False(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, later))

	// a different execution state root at a stored slot is
	suite.Require().True(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, suite.conflictingUpdate(height, 110)))

	// an update whose trusted consensus state is missing is not evidence
	suite.Require().False(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, suite.conflictingUpdate(clienttypes.NewHeight(0, 99), 110)))
}

func (suite *EthereumTestSuite) TestCheckForMisbehaviourMessage() {
	testCases := []struct {
		name         string
		misbehaviour func() *ethereum.Misbehaviour
		expected     bool
	}{
		{
			"same slot, different execution state roots",
			func() *ethereum.Misbehaviour {
				return ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.conflictingUpdate(height, 110))
			},
			true,
		},
		{
			"same slot, same consensus state",
			func() *ethereum.Misbehaviour {
				return ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.chain.Update(height, 110, 115, 116, participants, suite.stateRoot))
			},
			false,
		},
		{
			"same slot, trusted consensus state missing",
			func() *ethereum.Misbehaviour {
				return ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.conflictingUpdate(clienttypes.NewHeight(0, 99), 110))
			},
			false,
		},
		{
			"different slots",
			func() *ethereum.Misbehaviour {
				return ethereum.NewMisbehaviour(clientID, suite.update(height, 120), suite.conflictingUpdate(height, 110))
			},
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			suite.Require().Equal(tc.expected, suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, tc.misbehaviour()))
		})
	}
}

func (suite *EthereumTestSuite) TestVerifyMisbehaviour() {
	var misbehaviour *ethereum.Misbehaviour

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
			"success: headers trusting different consensus states",
			func() {
				suite.updateClient(suite.update(height, 110))
				misbehaviour.Header2 = suite.conflictingUpdate(clienttypes.NewHeight(0, 110), 120)
				misbehaviour.Header1 = suite.update(height, 120)
			},
			nil,
		},
		{
			"trusted consensus state of Header1 not found",
			func() {
				misbehaviour.Header1 = suite.update(clienttypes.NewHeight(0, 99), 110)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"trusted consensus state expired",
			func() {
				suite.clock.SetTime(ibctesting.SlotTime(trustedSlot).Add(ibctesting.BeaconTrustingPeriod + time.Nanosecond))
			},
			clienttypes.ErrTrustingPeriodExpired,
		},
		{
			"Header2 not signed by the sync committee",
			func() {
				misbehaviour.Header2.SyncAggregate.SyncCommitteeSignature = misbehaviour.Header1.SyncAggregate.SyncCommitteeSignature
			},
			ethereum.ErrInvalidUpdateProof,
		},
		{
			"Header1 signed by an untrusted committee",
			func() {
				misbehaviour.Header1.SyncCommittee = ibctesting.SyncCommittee(5)
			},
			clienttypes.ErrTrustedValidatorsMismatch,
		},
		{
			"client is frozen",
			func() {
				suite.lightClientModule.UpdateStateOnMisbehaviour(suite.ctx, clientID, misbehaviour)
			},
			clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			misbehaviour = ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.conflictingUpdate(height, 110))

			tc.malleate()

			err := suite.lightClientModule.VerifyMisbehaviour(suite.ctx, clientID, misbehaviour)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}

			// the module verifies misbehaviour passed as a client message the same way
			err = suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, misbehaviour)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *EthereumTestSuite) TestMisbehaviourFreezesClient() {
	misbehaviour := ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.conflictingUpdate(height, 110))
	suite.Require().NoError(misbehaviour.ValidateBasic())

	suite.Require().NoError(suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, misbehaviour))
	suite.Require().True(suite.lightClientModule.CheckForMisbehaviour(suite.ctx, clientID, misbehaviour))
	suite.lightClientModule.UpdateStateOnMisbehaviour(suite.ctx, clientID, misbehaviour)

	suite.Require().Equal(exported.Frozen, suite.lightClientModule.Status(suite.ctx, clientID))
	// frozen at the height of the misbehaviour
	suite.Require().Equal(clienttypes.NewHeight(0, 110), suite.clientState().FrozenHeight)

	err := suite.lightClientModule.VerifyClientMessage(suite.ctx, clientID, suite.update(height, 120))
	suite.Require().ErrorIs(err, clienttypes.ErrClientFrozen)
}

func (suite *EthereumTestSuite) TestMisbehaviourValidateBasic() {
	var misbehaviour *ethereum.Misbehaviour

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"valid misbehaviour",
			func() {},
			nil,
		},
		{
			"Header1 is nil",
			func() {
				misbehaviour.Header1 = nil
			},
			ethereum.ErrInvalidHeader,
		},
		{
			"Header2 is nil",
			func() {
				misbehaviour.Header2 = nil
			},
			ethereum.ErrInvalidHeader,
		},
		{
			"invalid client ID",
			func() {
				misbehaviour.ClientID = "(invalid)"
			},
			host.ErrInvalidID,
		},
		{
			"Header1 finality branch too short",
			func() {
				misbehaviour.Header1.FinalityBranch = misbehaviour.Header1.FinalityBranch[1:]
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"Header2 missing a sync committee member",
			func() {
				misbehaviour.Header2.SyncCommittee.Pubkeys = misbehaviour.Header2.SyncCommittee.Pubkeys[1:]
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"Header1 lower than Header2",
			func() {
				misbehaviour.Header2 = suite.conflictingUpdate(height, 120)
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			misbehaviour = ethereum.NewMisbehaviour(clientID, suite.update(height, 110), suite.conflictingUpdate(height, 110))

			tc.malleate()

			err := misbehaviour.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
