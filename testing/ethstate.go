package ibctesting

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/require"

	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
)

// proofList collects the nodes written by trie.Prove in root to leaf order.
type proofList [][]byte

func (n *proofList) Put(key []byte, value []byte) error {
	*n = append(*n, value)
	return nil
}

func (n *proofList) Delete(key []byte) error {
	panic("not supported")
}

// NewTrie returns an empty in-memory trie.
func NewTrie(t testing.TB) *trie.Trie {
	tr, err := trie.New(common.Hash{}, trie.NewDatabase(memorydb.New()))
	require.NoError(t, err)
	return tr
}

// Prove returns the proof of the secure key keccak256(key) in tr.
func Prove(t testing.TB, tr *trie.Trie, key []byte) mpt.Proof {
	var proof proofList
	require.NoError(t, tr.Prove(crypto.Keccak256(key), 0, &proof))
	return mpt.Proof(proof)
}

// EthState is the execution state of a counterparty chain: contract accounts in a state trie,
// each with its own storage trie. Keys are hashed as in the Ethereum secure tries.
type EthState struct {
	t testing.TB

	accounts *trie.Trie
	storage  map[common.Address]*trie.Trie
}

// NewEthState returns an empty state.
func NewEthState(t testing.TB) *EthState {
	return &EthState{
		t:        t,
		accounts: NewTrie(t),
		storage:  make(map[common.Address]*trie.Trie),
	}
}

// SetStorage sets the word at slot in the storage of address. A zero word clears the slot.
func (s *EthState) SetStorage(address common.Address, slot, value common.Hash) {
	tr, ok := s.storage[address]
	if !ok {
		tr = NewTrie(s.t)
		s.storage[address] = tr
	}

	key := crypto.Keccak256(slot.Bytes())
	if value == (common.Hash{}) {
		tr.Delete(key)
		return
	}

	bz, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value.Bytes()))
	require.NoError(s.t, err)
	tr.Update(key, bz)
}

// StorageRoot returns the storage root of address.
func (s *EthState) StorageRoot(address common.Address) common.Hash {
	tr, ok := s.storage[address]
	if !ok {
		return mpt.EmptyRoot
	}
	return tr.Hash()
}

// Root writes every account with its current storage root into the state trie and returns
// the state root.
func (s *EthState) Root() common.Hash {
	for address := range s.storage {
		account := types.StateAccount{
			Nonce:    1,
			Balance:  new(big.Int),
			Root:     s.StorageRoot(address),
			CodeHash: crypto.Keccak256(nil),
		}
		bz, err := rlp.EncodeToBytes(&account)
		require.NoError(s.t, err)
		s.accounts.Update(crypto.Keccak256(address.Bytes()), bz)
	}
	return s.accounts.Hash()
}

// AccountProof returns the proof of address against the state root returned by Root.
func (s *EthState) AccountProof(address common.Address) mpt.Proof {
	return Prove(s.t, s.accounts, address.Bytes())
}

// StorageProof returns the proof of slot against the storage root of address.
func (s *EthState) StorageProof(address common.Address, slot common.Hash) mpt.Proof {
	tr, ok := s.storage[address]
	if !ok {
		return nil
	}
	return Prove(s.t, tr, slot.Bytes())
}

// StateProof returns the account and storage proofs of slot in the storage of address.
func (s *EthState) StateProof(address common.Address, slot common.Hash) mpt.StateProof {
	return mpt.StateProof{
		AccountProof: s.AccountProof(address),
		StorageProof: s.StorageProof(address, slot),
	}
}
