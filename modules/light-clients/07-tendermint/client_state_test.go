package tendermint_test

import (
	"time"

	ics23 "github.com/confio/ics23/go"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ibctm "github.com/ComposableFi/light-clients/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

// stringPath is a path that is not a merkle path.
type stringPath string

func (p stringPath) String() string { return string(p) }
func (p stringPath) Empty() bool    { return p == "" }

var (
	testKey   = host.PacketCommitmentKey("transfer", "channel-0", 1)
	testValue = []byte("commitment")
)

func (suite *TendermintTestSuite) TestValidate() {
	testCases := []struct {
		name        string
		clientState *ibctm.ClientState
		expPass     bool
	}{
		{
			name:        "valid client",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     true,
		},
		{
			name:        "valid client with nil upgrade path",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), nil),
			expPass:     true,
		},
		{
			name:        "invalid chainID",
			clientState: ibctm.NewClientState("  ", ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid trust level",
			clientState: ibctm.NewClientState(chainID, ibctm.Fraction{Numerator: 0, Denominator: 1}, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid zero trusting period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, 0, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid zero unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, 0, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid zero max clock drift",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, 0, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid revision number",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, clienttypes.NewHeight(1, 1), commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid revision height",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, clienttypes.ZeroHeight(), commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "trusting period not less than unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.UnbondingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid proof specs",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, nil, ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid nil proof spec",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, []*ics23.ProofSpec{nil}, ibctesting.UpgradePath),
			expPass:     false,
		},
		{
			name:        "invalid empty upgrade path key",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, commitmenttypes.GetSDKSpecs(), []string{"upgrade", ""}),
			expPass:     false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			err := tc.clientState.Validate()
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestInitialize() {
	clientState := suite.chain.ClientState(height)

	err := suite.lightClientModule.Initialize(suite.ctx, "07-tendermint-1", clientState, &ibctm.ConsensusState{})
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidConsensus)

	clientState.ChainID = ""
	err = suite.lightClientModule.Initialize(suite.ctx, "07-tendermint-1", clientState, suite.chain.ConsensusState(suite.consensusTime))
	suite.Require().ErrorIs(err, ibctm.ErrInvalidChainID)

	// an expired initial consensus state is rejected before anything is stored
	suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
	err = suite.lightClientModule.Initialize(suite.ctx, "07-tendermint-1", suite.chain.ClientState(height), suite.chain.ConsensusState(suite.consensusTime))
	suite.Require().ErrorIs(err, clienttypes.ErrClientNotActive)
	suite.Require().False(clienttypes.HasConsensusState(suite.storeProvider.ClientStore("07-tendermint-1"), height))

	suite.Require().Equal(exported.Unknown, suite.lightClientModule.Status(suite.ctx, "07-tendermint-1"))
	suite.Require().Equal(clienttypes.ZeroHeight(), suite.lightClientModule.LatestHeight(suite.ctx, "07-tendermint-1"))
}

func (suite *TendermintTestSuite) TestStatus() {
	testCases := []struct {
		name      string
		malleate  func()
		expStatus exported.Status
	}{
		{"client is active", func() {}, exported.Active},
		{
			"client is frozen",
			func() {
				suite.lightClientModule.UpdateStateOnMisbehaviour(suite.ctx, clientID, nil)
			},
			exported.Frozen,
		},
		{
			"client is expired just after the trusting period",
			func() {
				suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod + time.Nanosecond))
			},
			exported.Expired,
		},
		{
			"client is active at the end of the trusting period",
			func() {
				suite.clock.SetTime(suite.consensusTime.Add(ibctesting.TrustingPeriod))
			},
			exported.Active,
		},
		{
			"client without a consensus state at its latest height is expired",
			func() {
				clienttypes.DeleteConsensusState(suite.clientStore(), height)
			},
			exported.Expired,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			tc.malleate()

			suite.Require().Equal(tc.expStatus, suite.lightClientModule.Status(suite.ctx, clientID))
		})
	}
}

func (suite *TendermintTestSuite) TestTimestampAtHeight() {
	timestamp, err := suite.lightClientModule.TimestampAtHeight(suite.ctx, clientID, height)
	suite.Require().NoError(err)
	suite.Require().Equal(clienttypes.TimeToTimestamp(suite.consensusTime), timestamp)

	_, err = suite.lightClientModule.TimestampAtHeight(suite.ctx, clientID, height.Increment())
	suite.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)
}

func (suite *TendermintTestSuite) TestVerifyMembership() {
	var (
		proofHeight      exported.Height
		delayTimePeriod  uint64
		delayBlockPeriod uint64
		proof            []byte
		path             exported.Path
		value            []byte
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
			"success: delay period passed",
			func() {
				delayTimePeriod = uint64(time.Minute)
				delayBlockPeriod = 1
				suite.clock.Advance(time.Minute)
			},
			nil,
		},
		{
			"delay time period has not passed",
			func() {
				delayTimePeriod = uint64(time.Hour)
			},
			clienttypes.ErrDelayPeriodNotPassed,
		},
		{
			"delay block period has not passed",
			func() {
				delayBlockPeriod = 10
			},
			clienttypes.ErrDelayPeriodNotPassed,
		},
		{
			"wrong value",
			func() {
				value = []byte("invalid value")
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"empty value",
			func() {
				value = nil
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"wrong path",
			func() {
				path = commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), []byte("other key"))
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"path is not a merkle path",
			func() {
				path = stringPath("commitments/ports/transfer")
			},
			ibcerrors.ErrInvalidType,
		},
		{
			"proof height greater than the latest height",
			func() {
				proofHeight = clienttypes.NewHeight(0, 200)
			},
			ibcerrors.ErrInvalidHeight,
		},
		{
			"consensus state not found at the proof height",
			func() {
				proofHeight = clienttypes.NewHeight(0, 99)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"proof rooted in another app hash",
			func() {
				proofHeight = height
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"proof cannot be decoded",
			func() {
				proof = []byte("invalid proof")
			},
			commitmenttypes.ErrInvalidProof,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			delayTimePeriod, delayBlockPeriod = 0, 0

			suite.chain.Store.Set(testKey, testValue)
			suite.chain.Store.Commit()
			header := suite.chain.CreateHeader(101, height, suite.consensusTime.Add(time.Minute))
			suite.updateClient(header)

			proofHeight = header.GetHeight()
			proof = suite.chain.Store.QueryProofBytes(testKey)
			path = commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), testKey)
			value = testValue

			tc.malleate()

			err := suite.lightClientModule.VerifyMembership(suite.ctx, clientID, proofHeight, delayTimePeriod, delayBlockPeriod, proof, path, value)

			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestVerifyNonMembership() {
	var (
		proof []byte
		path  exported.Path
	)
	absentKey := host.PacketReceiptKey("transfer", "channel-0", 1)

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
			"key is present",
			func() {
				path = commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), testKey)
				proof = suite.chain.Store.QueryProofBytes(testKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"absence proof of another key",
			func() {
				path = commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), testKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			suite.chain.Store.Set(testKey, testValue)
			suite.chain.Store.Commit()
			header := suite.chain.CreateHeader(101, height, suite.consensusTime.Add(time.Minute))
			suite.updateClient(header)

			proof = suite.chain.Store.QueryProofBytes(absentKey)
			path = commitmenttypes.NewMerklePath([]byte(ibctesting.StoreName), absentKey)

			tc.malleate()

			err := suite.lightClientModule.VerifyNonMembership(suite.ctx, clientID, header.GetHeight(), 0, 0, proof, path)

			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
