package mpt_test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	ibctesting "github.com/ComposableFi/light-clients/testing"
)

func (suite *MPTTestSuite) TestAccountStorageChaining() {
	var (
		state = ibctesting.NewEthState(suite.T())
		slot  = common.HexToHash("0x2a")
		value = common.HexToHash("0xdeadbeef")
		other = common.HexToAddress("0x1000000000000000000000000000000000000001")
	)
	state.SetStorage(contractAddress, slot, value)
	state.SetStorage(contractAddress, common.HexToHash("0x01"), common.HexToHash("0x01"))
	state.SetStorage(other, slot, common.HexToHash("0x02"))

	stateRoot := state.Root()
	storageRoot := state.StorageRoot(contractAddress)
	accountProof := state.AccountProof(contractAddress)
	storageProof := state.StorageProof(contractAddress, slot)

	root, err := mpt.AccountStorageRoot(stateRoot, contractAddress, accountProof)
	suite.Require().NoError(err)
	suite.Require().Equal(storageRoot, root)

	suite.Require().NoError(mpt.VerifyAccountStorageRoot(stateRoot, contractAddress, storageRoot, accountProof))
	suite.Require().NoError(mpt.VerifyStorageProof(storageRoot, slot, value, storageProof))

	verifyBoth := func(stateRoot common.Hash, value common.Hash, accountProof, storageProof mpt.Proof) (accountErr, storageErr error) {
		accountErr = mpt.VerifyAccountStorageRoot(stateRoot, contractAddress, storageRoot, accountProof)
		storageErr = mpt.VerifyStorageProof(storageRoot, slot, value, storageProof)
		return accountErr, storageErr
	}

	for i := range accountProof {
		for j := range accountProof[i] {
			corrupted := copyProof(accountProof)
			corrupted[i][j] ^= 0xff

			accountErr, storageErr := verifyBoth(stateRoot, value, corrupted, storageProof)
			suite.Require().Error(accountErr, "account proof node %d byte %d", i, j)
			suite.Require().NoError(storageErr)
		}
	}

	for i := range storageProof {
		for j := range storageProof[i] {
			corrupted := copyProof(storageProof)
			corrupted[i][j] ^= 0xff

			accountErr, storageErr := verifyBoth(stateRoot, value, accountProof, corrupted)
			suite.Require().NoError(accountErr)
			suite.Require().Error(storageErr, "storage proof node %d byte %d", i, j)
		}
	}

	for j := range stateRoot {
		corrupted := stateRoot
		corrupted[j] ^= 0xff

		accountErr, storageErr := verifyBoth(corrupted, value, accountProof, storageProof)
		suite.Require().ErrorIs(accountErr, mpt.ErrInvalidProof)
		suite.Require().NoError(storageErr)
	}

	for j := range value {
		corrupted := value
		corrupted[j] ^= 0xff

		accountErr, storageErr := verifyBoth(stateRoot, corrupted, accountProof, storageProof)
		suite.Require().NoError(accountErr)
		suite.Require().ErrorIs(storageErr, mpt.ErrValueMismatch)
	}

	// the account of another contract does not carry this storage root
	err = mpt.VerifyAccountStorageRoot(stateRoot, other, storageRoot, state.AccountProof(other))
	suite.Require().ErrorIs(err, mpt.ErrValueMismatch)

	// an account proof does not prove an account that does not exist
	missing := common.HexToAddress("0x2000000000000000000000000000000000000002")
	_, err = mpt.VerifyAccount(stateRoot, missing, state.AccountProof(missing))
	suite.Require().ErrorIs(err, mpt.ErrKeyNotFound)
}

func (suite *MPTTestSuite) TestStorageValueOfUnsetSlot() {
	state := ibctesting.NewEthState(suite.T())
	state.SetStorage(contractAddress, common.HexToHash("0x01"), common.HexToHash("0x05"))
	storageRoot := state.StorageRoot(contractAddress)

	unset := common.HexToHash("0x02")
	word, err := mpt.StorageValue(storageRoot, unset, state.StorageProof(contractAddress, unset))
	suite.Require().NoError(err)
	suite.Require().Equal(common.Hash{}, word)

	word, err = mpt.StorageValue(storageRoot, common.HexToHash("0x01"), state.StorageProof(contractAddress, common.HexToHash("0x01")))
	suite.Require().NoError(err)
	suite.Require().Equal(common.HexToHash("0x05"), word)
}

func (suite *MPTTestSuite) TestMappingSlot() {
	key := crypto.Keccak256(host.PacketCommitmentKey("transfer", "channel-0", 1))
	slot := common.HexToHash("0x05")

	expected := crypto.Keccak256Hash(append(append([]byte(nil), key...), slot.Bytes()...))
	suite.Require().Equal(expected, mpt.MappingSlot(key, slot))
	suite.Require().NotEqual(expected, mpt.MappingSlot(key, common.HexToHash("0x06")))
}

func (suite *MPTTestSuite) TestSlotOffset() {
	suite.Require().Equal(common.HexToHash("0x03"), mpt.SlotOffset(common.HexToHash("0x01"), 2))
	suite.Require().Equal(common.HexToHash("0x01"), mpt.SlotOffset(common.HexToHash("0x01"), 0))

	max := common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	suite.Require().Equal(common.Hash{}, mpt.SlotOffset(max, 1))
}
