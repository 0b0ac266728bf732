package mpt

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// VerifyAccount proves the account of address against a block state root and returns it.
func VerifyAccount(stateRoot common.Hash, address common.Address, accountProof Proof) (*types.StateAccount, error) {
	value, err := VerifyProof(stateRoot, address.Bytes(), accountProof)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, sdkerrors.Wrapf(ErrKeyNotFound, "account %s", address)
	}

	var account types.StateAccount
	if err := rlp.DecodeBytes(value, &account); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "failed to decode account %s: %v", address, err)
	}
	return &account, nil
}

// AccountStorageRoot proves the account of address and returns its storage root.
func AccountStorageRoot(stateRoot common.Hash, address common.Address, accountProof Proof) (common.Hash, error) {
	account, err := VerifyAccount(stateRoot, address, accountProof)
	if err != nil {
		return common.Hash{}, err
	}
	return account.Root, nil
}

// VerifyAccountStorageRoot proves that the account of address has the given storage root.
func VerifyAccountStorageRoot(stateRoot common.Hash, address common.Address, storageRoot common.Hash, accountProof Proof) error {
	root, err := AccountStorageRoot(stateRoot, address, accountProof)
	if err != nil {
		return err
	}
	if root != storageRoot {
		return sdkerrors.Wrapf(ErrValueMismatch, "account %s storage root: expected %s, got %s", address, storageRoot, root)
	}
	return nil
}

// StorageValue proves the 32-byte word stored at slot under storageRoot. An absent slot holds
// the zero word.
func StorageValue(storageRoot common.Hash, slot common.Hash, storageProof Proof) (common.Hash, error) {
	value, err := VerifyProof(storageRoot, slot.Bytes(), storageProof)
	if err != nil {
		return common.Hash{}, err
	}
	if value == nil {
		return common.Hash{}, nil
	}

	// slots hold the RLP encoding of the word with its leading zeroes trimmed
	var content []byte
	if err := rlp.DecodeBytes(value, &content); err != nil {
		return common.Hash{}, sdkerrors.Wrapf(ErrInvalidProof, "failed to decode storage slot %s: %v", slot, err)
	}
	if len(content) > common.HashLength {
		return common.Hash{}, sdkerrors.Wrapf(ErrInvalidProof, "storage slot %s holds %d bytes", slot, len(content))
	}
	return common.BytesToHash(content), nil
}

// VerifyStorageProof proves that slot holds value under storageRoot.
func VerifyStorageProof(storageRoot common.Hash, slot common.Hash, value common.Hash, storageProof Proof) error {
	proven, err := StorageValue(storageRoot, slot, storageProof)
	if err != nil {
		return err
	}
	if proven != value {
		return sdkerrors.Wrapf(ErrValueMismatch, "storage slot %s: expected %s, got %s", slot, value, proven)
	}
	return nil
}

// MappingSlot returns the storage slot of key in a Solidity mapping declared at slot:
// keccak256(key ++ slot). Value type keys must be left padded to 32 bytes by the caller.
func MappingSlot(key []byte, slot common.Hash) common.Hash {
	return crypto.Keccak256Hash(key, slot.Bytes())
}

// SlotOffset returns the slot offset words after slot, the location of the member at that
// offset in a struct stored at slot.
func SlotOffset(slot common.Hash, offset uint64) common.Hash {
	n := new(uint256.Int).SetBytes32(slot.Bytes())
	n.AddUint64(n, offset)
	return n.Bytes32()
}
