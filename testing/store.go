package ibctesting

import (
	"fmt"
	"testing"

	"github.com/cosmos/cosmos-sdk/store/dbadapter"
	"github.com/cosmos/cosmos-sdk/store/rootmulti"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tm-db"

	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
)

// NewMemStore returns an empty KVStore backed by an in-memory database.
func NewMemStore() storetypes.KVStore {
	return &dbadapter.Store{DB: dbm.NewMemDB()}
}

// ProvableStore is a counterparty application store: a single IAVL store mounted in a
// multistore, so that queries return the chained ICS23 proofs an SDK chain would serve
// against its app hash.
type ProvableStore struct {
	t testing.TB

	multiStore *rootmulti.Store
	storeKey   *storetypes.KVStoreKey
	lastCommit storetypes.CommitID
}

// NewProvableStore mounts an empty IAVL store named storeName.
func NewProvableStore(t testing.TB, storeName string) *ProvableStore {
	multiStore := rootmulti.NewStore(dbm.NewMemDB())
	storeKey := storetypes.NewKVStoreKey(storeName)

	multiStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, multiStore.LoadVersion(0))

	return &ProvableStore{
		t:          t,
		multiStore: multiStore,
		storeKey:   storeKey,
	}
}

// StoreName returns the name of the IAVL store, the first key of every proven path.
func (s *ProvableStore) StoreName() string {
	return s.storeKey.Name()
}

// Prefix returns the commitment prefix of the store.
func (s *ProvableStore) Prefix() commitmenttypes.MerklePrefix {
	return commitmenttypes.NewMerklePrefix([]byte(s.StoreName()))
}

// Set writes a value into the uncommitted working state.
func (s *ProvableStore) Set(key, value []byte) {
	s.multiStore.GetCommitKVStore(s.storeKey).Set(key, value)
}

// Commit commits the working state and returns the resulting app hash.
func (s *ProvableStore) Commit() []byte {
	s.lastCommit = s.multiStore.Commit()
	return s.lastCommit.Hash
}

// QueryProof returns the value stored under key at the last commit, together with a proof of
// its membership, or of the absence of key if no value is stored.
func (s *ProvableStore) QueryProof(key []byte) ([]byte, commitmenttypes.MerkleProof) {
	res := s.multiStore.Query(abci.RequestQuery{
		Path:   fmt.Sprintf("/%s/key", s.StoreName()),
		Height: s.lastCommit.Version,
		Data:   key,
		Prove:  true,
	})
	require.True(s.t, res.IsOK(), res.Log)
	require.NotNil(s.t, res.ProofOps)

	proof, err := commitmenttypes.ConvertProofs(res.ProofOps)
	require.NoError(s.t, err)
	return res.Value, proof
}

// QueryProofBytes returns the encoded proof of key at the last commit.
func (s *ProvableStore) QueryProofBytes(key []byte) []byte {
	_, proof := s.QueryProof(key)
	bz, err := proof.Marshal()
	require.NoError(s.t, err)
	return bz
}
