package mpt

import (
	"bytes"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

// EmptyRoot is the root hash of an empty trie.
var EmptyRoot = types.EmptyRootHash

// Proof is a list of RLP encoded trie nodes.
type Proof [][]byte

// DecodeProof decodes an RLP list of trie nodes.
func DecodeProof(bz []byte) (Proof, error) {
	var proof Proof
	if err := rlp.DecodeBytes(bz, &proof); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "failed to decode proof nodes: %v", err)
	}
	return proof, nil
}

// Encode returns the RLP encoding of the proof nodes.
func (p Proof) Encode() []byte {
	bz, err := rlp.EncodeToBytes(p)
	if err != nil {
		// [][]byte is always encodable
		panic(err)
	}
	return bz
}

// VerifyProof descends the trie with the given root along keccak256(key) using only the
// supplied proof nodes, and returns the value stored there. A nil value with a nil error
// proves that the key is absent. An empty proof is only valid against the empty root.
//
// Nodes are looked up by their hash, so a modified node is never reached and traversal
// fails instead of reporting absence.
func VerifyProof(root common.Hash, key []byte, proof Proof) ([]byte, error) {
	if len(proof) == 0 {
		if root == EmptyRoot {
			return nil, nil
		}
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "empty proof against non-empty root %s", root)
	}

	db := memorydb.New()
	for _, node := range proof {
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			return nil, sdkerrors.Wrap(ErrInvalidProof, err.Error())
		}
	}

	value, err := trie.VerifyProof(root, crypto.Keccak256(key), db)
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "trie traversal for key %x failed: %v", key, err)
	}
	return value, nil
}

// VerifyMembership proves that value is stored under key.
func VerifyMembership(root common.Hash, key, value []byte, proof Proof) error {
	proven, err := VerifyProof(root, key, proof)
	if err != nil {
		return err
	}
	if proven == nil {
		return sdkerrors.Wrapf(ErrKeyNotFound, "key %x", key)
	}
	if !bytes.Equal(proven, value) {
		return sdkerrors.Wrapf(ErrValueMismatch, "key %x: expected %x, got %x", key, value, proven)
	}
	return nil
}

// VerifyNonMembership proves that nothing is stored under key.
func VerifyNonMembership(root common.Hash, key []byte, proof Proof) error {
	proven, err := VerifyProof(root, key, proof)
	if err != nil {
		return err
	}
	if proven != nil {
		return sdkerrors.Wrapf(ErrValueMismatch, "key %x is present with value %x", key, proven)
	}
	return nil
}
