package keeper_test

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ComposableFi/light-clients/modules/core/02-client/keeper"
	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ibctm "github.com/ComposableFi/light-clients/modules/light-clients/07-tendermint"
	ethereum "github.com/ComposableFi/light-clients/modules/light-clients/13-ethereum"
	arbitrum "github.com/ComposableFi/light-clients/modules/light-clients/15-arbitrum"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

func (suite *KeeperTestSuite) TestCreateClient() {
	var (
		clientState    exported.ClientState
		consensusState exported.ConsensusState
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
			"client type not allowed",
			func() {
				k, err := keeper.NewKeeper(ibctesting.NewMemStore(), suite.clock, types.NewParams(1, exported.Ethereum), suite.keeper.Logger())
				suite.Require().NoError(err)
				suite.keeper = k
			},
			types.ErrInvalidClientType,
		},
		{
			"consensus state of another client type",
			func() {
				consensusState = ibctesting.NewBeaconChain(suite.T()).ConsensusState(100, common.Hash{})
			},
			types.ErrInvalidConsensus,
		},
		{
			"invalid client state",
			func() {
				clientState.(*ibctm.ClientState).ChainID = ""
			},
			ibctm.ErrInvalidChainID,
		},
		{
			"consensus state already expired",
			func() {
				suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
			},
			types.ErrClientNotActive,
		},
		{
			"client state already frozen",
			func() {
				clientState.(*ibctm.ClientState).FrozenHeight = types.FrozenHeight
			},
			types.ErrClientNotActive,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			clientState = suite.chain.ClientState(height)
			consensusState = suite.chain.ConsensusState(suite.consensusTime)

			tc.malleate()

			clientID, err := suite.keeper.CreateClient(suite.ctx, clientState, consensusState)
			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal("07-tendermint-0", clientID)
				suite.Require().Equal(exported.Active, suite.keeper.GetClientStatus(suite.ctx, clientID))
				suite.Require().Equal(height, suite.keeper.GetLatestHeight(suite.ctx, clientID))
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Empty(clientID)

				// a rejected client leaves nothing behind
				suite.Require().Zero(suite.keeper.GetNextClientSequence())
				suite.Require().Equal(exported.Unknown, suite.keeper.GetClientStatus(suite.ctx, "07-tendermint-0"))
				iterator := suite.keeper.ClientStore("07-tendermint-0").Iterator(nil, nil)
				defer iterator.Close()
				suite.Require().False(iterator.Valid())
			}
		})
	}
}

func (suite *KeeperTestSuite) TestCreateClientAtEndOfTrustingPeriod() {
	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod))

	clientID := suite.createTendermintClient()
	suite.Require().Equal(exported.Active, suite.keeper.GetClientStatus(suite.ctx, clientID))

	// a failed creation does not consume the sequence of the next client
	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
	_, err := suite.keeper.CreateClient(suite.ctx, suite.chain.ClientState(height), suite.chain.ConsensusState(suite.consensusTime))
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
	suite.Require().Equal(uint64(1), suite.keeper.GetNextClientSequence())

	suite.clock.SetTime(suite.consensusTime)
	nextClientID := suite.createTendermintClient()
	suite.Require().Equal("07-tendermint-1", nextClientID)
}

func (suite *KeeperTestSuite) TestUpdateClient() {
	var (
		clientID  string
		clientMsg exported.ClientMessage
	)

	testCases := []struct {
		name      string
		malleate  func()
		expErr    error
		expFrozen bool
	}{
		{
			"success",
			func() {},
			nil,
			false,
		},
		{
			"conflicting header freezes the client",
			func() {
				suite.Require().NoError(suite.keeper.UpdateClient(suite.ctx, clientID, clientMsg))
				clientMsg = suite.conflictingHeader(110, suite.consensusTime.Add(time.Minute))
			},
			nil,
			true,
		},
		{
			"message of another client type",
			func() {
				clientMsg = &ethereum.Header{}
			},
			types.ErrInvalidClientType,
			false,
		},
		{
			"header without trusted validators",
			func() {
				clientMsg.(*ibctm.Header).TrustedValidators = nil
			},
			ibctm.ErrInvalidValidatorSet,
			false,
		},
		{
			"header not signed by the trusted validators",
			func() {
				otherChain := ibctesting.NewTendermintChain(suite.T(), ibctesting.ChainID, 4)
				clientMsg = otherChain.CreateHeader(110, height, suite.consensusTime.Add(time.Minute))
			},
			types.ErrTrustedValidatorsMismatch,
			false,
		},
		{
			"client not found",
			func() {
				clientID = "07-tendermint-9"
			},
			types.ErrClientNotActive,
			false,
		},
		{
			"client expired",
			func() {
				suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
			},
			types.ErrClientNotActive,
			false,
		},
		{
			"unknown client type",
			func() {
				clientID = "06-solomachine-0"
			},
			types.ErrRouteNotFound,
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			clientID = suite.createTendermintClient()
			clientMsg = suite.chain.CreateHeader(110, height, suite.consensusTime.Add(time.Minute))

			tc.malleate()

			err := suite.keeper.UpdateClient(suite.ctx, clientID, clientMsg)
			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			if tc.expFrozen {
				suite.Require().Equal(exported.Frozen, suite.keeper.GetClientStatus(suite.ctx, clientID))
				return
			}

			suite.Require().Equal(exported.Active, suite.keeper.GetClientStatus(suite.ctx, clientID))
			suite.Require().Equal(types.NewHeight(0, 110), suite.keeper.GetLatestHeight(suite.ctx, clientID))
			_, found := suite.keeper.GetClientConsensusState(suite.ctx, clientID, types.NewHeight(0, 110))
			suite.Require().True(found)
		})
	}
}

func (suite *KeeperTestSuite) TestSubmitMisbehaviour() {
	var (
		clientID     string
		misbehaviour exported.Misbehaviour
	)

	timestamp := suite.consensusTime.Add(time.Minute)

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
			"misbehaviour of another client",
			func() {
				misbehaviour.(*ibctm.Misbehaviour).ClientID = "07-tendermint-1"
			},
			types.ErrInvalidMisbehaviour,
		},
		{
			"misbehaviour fails basic validation",
			func() {
				misbehaviour.(*ibctm.Misbehaviour).Header2 = nil
			},
			ibctm.ErrInvalidHeader,
		},
		{
			"headers do not conflict",
			func() {
				header := suite.chain.CreateHeader(110, height, timestamp)
				misbehaviour = ibctm.NewMisbehaviour(clientID, header, header)
			},
			types.ErrInvalidMisbehaviour,
		},
		{
			"client already frozen",
			func() {
				suite.Require().NoError(suite.keeper.SubmitMisbehaviour(suite.ctx, clientID, misbehaviour))
			},
			types.ErrClientNotActive,
		},
		{
			"client type without misbehaviour evidence",
			func() {
				clientID = "15-arbitrum-0"
			},
			ibcerrors.ErrUnimplemented,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			clientID = suite.createTendermintClient()
			misbehaviour = ibctm.NewMisbehaviour(clientID, suite.conflictingHeader(110, timestamp), suite.chain.CreateHeader(110, height, timestamp))

			tc.malleate()

			err := suite.keeper.SubmitMisbehaviour(suite.ctx, clientID, misbehaviour)
			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(exported.Frozen, suite.keeper.GetClientStatus(suite.ctx, clientID))
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestUpdateClientWithMisbehaviour() {
	clientID := suite.createTendermintClient()
	timestamp := suite.consensusTime.Add(time.Minute)
	misbehaviour := ibctm.NewMisbehaviour(clientID, suite.conflictingHeader(110, timestamp), suite.chain.CreateHeader(110, height, timestamp))

	suite.Require().NoError(suite.keeper.UpdateClient(suite.ctx, clientID, misbehaviour))
	suite.Require().Equal(exported.Frozen, suite.keeper.GetClientStatus(suite.ctx, clientID))
	suite.Require().Equal(height, suite.keeper.GetLatestHeight(suite.ctx, clientID))
}

func (suite *KeeperTestSuite) TestUpgradeClient() {
	clientID := suite.createTendermintClient()
	upgradedClient := suite.chain.ClientState(types.NewHeight(1, 1))
	upgradedConsState := suite.chain.ConsensusState(suite.consensusTime)

	// the chain never committed to the upgrade
	err := suite.keeper.UpgradeClient(suite.ctx, clientID, upgradedClient, upgradedConsState, nil, nil)
	suite.Require().Error(err)
	suite.Require().Equal(height, suite.keeper.GetLatestHeight(suite.ctx, clientID))

	err = suite.keeper.UpgradeClient(suite.ctx, "13-ethereum-0", upgradedClient, upgradedConsState, nil, nil)
	suite.Require().ErrorIs(err, ibcerrors.ErrUnimplemented)

	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
	err = suite.keeper.UpgradeClient(suite.ctx, clientID, upgradedClient, upgradedConsState, nil, nil)
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
}

func (suite *KeeperTestSuite) TestVerifyMembership() {
	testKey, testValue := []byte("key"), []byte("value")
	suite.chain.Store.Set(testKey, testValue)
	suite.chain.Store.Commit()

	clientID := suite.createTendermintClient()
	proof := suite.chain.Store.QueryProofBytes(testKey)
	path := commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), testKey)

	suite.Require().NoError(suite.keeper.VerifyMembership(suite.ctx, clientID, height, 0, 0, proof, path, testValue))

	err := suite.keeper.VerifyMembership(suite.ctx, clientID, height, 0, 0, proof, path, []byte("other value"))
	suite.Require().Error(err)

	absentKey := []byte("absent key")
	absentProof := suite.chain.Store.QueryProofBytes(absentKey)
	absentPath := commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), absentKey)
	suite.Require().NoError(suite.keeper.VerifyNonMembership(suite.ctx, clientID, height, 0, 0, absentProof, absentPath))

	err = suite.keeper.VerifyMembership(suite.ctx, "06-solomachine-0", height, 0, 0, proof, path, testValue)
	suite.Require().ErrorIs(err, types.ErrRouteNotFound)

	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
	err = suite.keeper.VerifyMembership(suite.ctx, clientID, height, 0, 0, proof, path, testValue)
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
	err = suite.keeper.VerifyNonMembership(suite.ctx, clientID, height, 0, 0, absentProof, absentPath)
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
}

func (suite *KeeperTestSuite) TestConsensusStateRoot() {
	clientID := suite.createTendermintClient()

	root, err := suite.keeper.ConsensusStateRoot(suite.ctx, clientID, height)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.chain.AppHash(), root)

	_, err = suite.keeper.ConsensusStateRoot(suite.ctx, clientID, types.NewHeight(0, 99))
	suite.Require().ErrorIs(err, types.ErrConsensusStateNotFound)

	_, err = suite.keeper.ConsensusStateRoot(suite.ctx, "07-tendermint-9", height)
	suite.Require().ErrorIs(err, types.ErrClientNotActive)

	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
	_, err = suite.keeper.ConsensusStateRoot(suite.ctx, clientID, height)
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
}

func (suite *KeeperTestSuite) TestUpdateClients() {
	otherChain := ibctesting.NewTendermintChain(suite.T(), "otherchain-0", 4)

	clientID := suite.createTendermintClient()
	otherClientID, err := suite.keeper.CreateClient(suite.ctx, otherChain.ClientState(height), otherChain.ConsensusState(suite.consensusTime))
	suite.Require().NoError(err)

	var updates []keeper.ClientUpdate
	for i := int64(1); i <= 10; i++ {
		timestamp := suite.consensusTime.Add(time.Duration(i) * time.Minute)
		updates = append(updates,
			keeper.ClientUpdate{ClientID: clientID, Message: suite.chain.CreateHeader(100+i, height, timestamp)},
			keeper.ClientUpdate{ClientID: otherClientID, Message: otherChain.CreateHeader(100+i, height, timestamp)},
		)
	}
	// failing updates do not affect the others
	updates = append(updates,
		keeper.ClientUpdate{ClientID: "06-solomachine-0", Message: suite.chain.CreateHeader(120, height, suite.consensusTime.Add(time.Hour))},
		keeper.ClientUpdate{ClientID: clientID, Message: otherChain.CreateHeader(120, height, suite.consensusTime.Add(time.Hour))},
	)

	errs := suite.keeper.UpdateClients(suite.ctx, updates)
	suite.Require().Len(errs, len(updates))
	for i := 0; i < 20; i++ {
		suite.Require().NoError(errs[i], "update %d", i)
	}
	suite.Require().ErrorIs(errs[20], types.ErrRouteNotFound)
	suite.Require().ErrorIs(errs[21], types.ErrTrustedValidatorsMismatch)

	for _, id := range []string{clientID, otherClientID} {
		suite.Require().Equal(types.NewHeight(0, 110), suite.keeper.GetLatestHeight(suite.ctx, id))
		for i := uint64(101); i <= 110; i++ {
			_, found := suite.keeper.GetClientConsensusState(suite.ctx, id, types.NewHeight(0, i))
			suite.Require().True(found)
		}
	}
}

func (suite *KeeperTestSuite) TestUpdateClientsCanceledContext() {
	clientID := suite.createTendermintClient()

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	errs := suite.keeper.UpdateClients(ctx, []keeper.ClientUpdate{
		{ClientID: clientID, Message: suite.chain.CreateHeader(110, height, suite.consensusTime.Add(time.Minute))},
	})
	suite.Require().ErrorIs(errs[0], context.Canceled)
	suite.Require().Equal(height, suite.keeper.GetLatestHeight(suite.ctx, clientID))
}

// TestArbitrumFollowsEthereum runs a rollup client reading the parent chain state root through
// the ethereum client tracking the parent chain.
func (suite *KeeperTestSuite) TestArbitrumFollowsEthereum() {
	beacon := ibctesting.NewBeaconChain(suite.T())
	rollup := ibctesting.NewRollup(suite.T())
	suite.clock.SetTime(ibctesting.SlotTime(300))

	l2State := ibctesting.NewEthState(suite.T())
	l2State.SetStorage(ibctesting.IBCContractAddress, common.BigToHash(common.Big1), crypto.Keccak256Hash([]byte("commitment")))
	stateRoot := l2State.Root()

	ethClientID, err := suite.keeper.CreateClient(suite.ctx, beacon.ClientState(100), beacon.ConsensusState(100, rollup.L1Root()))
	suite.Require().NoError(err)
	suite.Require().Equal("13-ethereum-0", ethClientID)

	genesis := rollup.L2Block(1500, stateRoot)
	arbClientID, err := suite.keeper.CreateClient(suite.ctx, rollup.ClientState(ethClientID, 1500), rollup.ConsensusState(genesis))
	suite.Require().NoError(err)
	suite.Require().Equal("15-arbitrum-1", arbClientID)

	// the rollup confirms block 1600 and the ethereum client learns the new parent chain state
	block := rollup.L2Block(1600, stateRoot)
	rollup.ConfirmNode(1, block)
	l1Update := beacon.Update(types.NewHeight(0, 100), 110, 112, 113, 400, rollup.L1Root())
	suite.Require().NoError(suite.keeper.UpdateClient(suite.ctx, ethClientID, l1Update))

	l1Height := types.NewHeight(0, 110)
	root, err := suite.keeper.ConsensusStateRoot(suite.ctx, ethClientID, l1Height)
	suite.Require().NoError(err)
	suite.Require().Equal(rollup.L1Root().Bytes(), root)

	header := rollup.Header(types.NewHeight(0, 1500), l1Height, 1, block)
	suite.Require().NoError(suite.keeper.UpdateClient(suite.ctx, arbClientID, header))
	suite.Require().Equal(types.NewHeight(0, 1600), suite.keeper.GetLatestHeight(suite.ctx, arbClientID))

	consensusState, found := suite.keeper.GetClientConsensusState(suite.ctx, arbClientID, types.NewHeight(0, 1600))
	suite.Require().True(found)
	suite.Require().Equal(block.Hash().Bytes(), consensusState.(*arbitrum.ConsensusState).BlockHash)

	// a node confirmed after the last parent chain update is not provable yet
	next := rollup.L2Block(1700, stateRoot)
	rollup.ConfirmNode(2, next)
	err = suite.keeper.UpdateClient(suite.ctx, arbClientID, rollup.Header(types.NewHeight(0, 1600), l1Height, 2, next))
	suite.Require().ErrorIs(err, arbitrum.ErrInvalidUpdateProof)

	// nor through a frozen parent chain client
	ethModule, err := suite.keeper.Route(ethClientID)
	suite.Require().NoError(err)
	ethModule.UpdateStateOnMisbehaviour(suite.ctx, ethClientID, nil)

	err = suite.keeper.UpdateClient(suite.ctx, arbClientID, rollup.Header(types.NewHeight(0, 1600), l1Height, 2, next))
	suite.Require().ErrorIs(err, types.ErrClientNotActive)
	suite.Require().Equal(exported.Active, suite.keeper.GetClientStatus(suite.ctx, arbClientID))
}
