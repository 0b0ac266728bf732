package mpt_test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

type otherPath struct{}

func (otherPath) String() string { return "other" }
func (otherPath) Empty() bool { return false }

func (suite *MPTTestSuite) TestVerifier() {
	var (
		verifier = mpt.NewVerifier(contractAddress, commitmentsSlot)
		state    = ibctesting.NewEthState(suite.T())

		path       = mpt.NewPath(host.PacketCommitmentKey("transfer", "channel-0", 1))
		value      = []byte("packet commitment")
		absentPath = mpt.NewPath(host.PacketCommitmentKey("transfer", "channel-0", 2))

		stateRoot []byte
		proof     []byte
	)

	state.SetStorage(contractAddress, verifier.CommitmentSlot(path), crypto.Keccak256Hash(value))
	root := state.Root()
	membershipProof := state.StateProof(contractAddress, verifier.CommitmentSlot(path)).Encode()
	nonMembershipProof := state.StateProof(contractAddress, verifier.CommitmentSlot(absentPath)).Encode()

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
			"wrong value",
			func() {
				value = []byte("other commitment")
			},
			mpt.ErrValueMismatch,
		},
		{
			"empty value",
			func() {
				value = nil
			},
			mpt.ErrValueMismatch,
		},
		{
			"wrong root",
			func() {
				stateRoot = common.HexToHash("0x01").Bytes()
			},
			mpt.ErrInvalidProof,
		},
		{
			"root of wrong length",
			func() {
				stateRoot = stateRoot[:31]
			},
			mpt.ErrInvalidProof,
		},
		{
			"malformed proof",
			func() {
				proof = []byte("proof")
			},
			mpt.ErrInvalidProof,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			value = []byte("packet commitment")
			stateRoot = root.Bytes()
			proof = membershipProof

			tc.malleate()

			err := verifier.VerifyMembership(stateRoot, path, value, proof)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}

	suite.Require().NoError(verifier.VerifyNonMembership(root.Bytes(), absentPath, nonMembershipProof))
	suite.Require().ErrorIs(verifier.VerifyNonMembership(root.Bytes(), path, membershipProof), mpt.ErrValueMismatch)

	suite.Require().ErrorIs(verifier.VerifyMembership(root.Bytes(), otherPath{}, value, membershipProof), mpt.ErrInvalidPath)
	suite.Require().ErrorIs(verifier.VerifyNonMembership(root.Bytes(), mpt.NewPath(nil), nonMembershipProof), mpt.ErrInvalidPath)

	// a contract at another address holds no commitments
	otherVerifier := mpt.NewVerifier(common.HexToAddress("0x01"), commitmentsSlot)
	suite.Require().Error(otherVerifier.VerifyMembership(root.Bytes(), path, value, membershipProof))
}
