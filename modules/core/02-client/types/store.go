package types

import (
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"

	host "github.com/ComposableFi/light-clients/modules/core/24-host"
)

// StoreProvider hands light client modules the isolated store of a single client.
type StoreProvider interface {
	ClientStore(clientID string) storetypes.KVStore
}

var _ StoreProvider = (*storeProvider)(nil)

// storeProvider encapsulates the root light client store.
type storeProvider struct {
	store storetypes.KVStore
}

// NewStoreProvider creates and returns a new StoreProvider over the given root store.
func NewStoreProvider(store storetypes.KVStore) StoreProvider {
	return storeProvider{
		store: store,
	}
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func (s storeProvider) ClientStore(clientID string) storetypes.KVStore {
	return prefix.NewStore(s.store, host.PrefixedClientStoreKey([]byte(clientID)))
}
