package host

import (
	"fmt"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// KeyClientStorePrefix defines the KVStore key prefix for IBC clients
var KeyClientStorePrefix = []byte("clients")

const (
	KeyClientState          = "clientState"
	KeyConsensusStatePrefix = "consensusStates"
	KeyNextClientSequence   = "nextClientSequence"

	// KeyUpgradedIBCState is the key under which a counterparty commits the client and
	// consensus states it will run after a planned upgrade.
	KeyUpgradedIBCState  = "upgradedIBCState"
	KeyUpgradedClient    = "upgradedClient"
	KeyUpgradedConsState = "upgradedConsState"
)

// FullClientPath returns the full path of a specific client path in the format:
// "clients/{clientID}/{path}" as a string.
func FullClientPath(clientID string, path string) string {
	return fmt.Sprintf("%s/%s/%s", KeyClientStorePrefix, clientID, path)
}

// FullClientKey returns the full path of specific client path in the format:
// "clients/{clientID}/{path}" as a byte array.
func FullClientKey(clientID string, path []byte) []byte {
	return []byte(FullClientPath(clientID, string(path)))
}

// PrefixedClientStoreKey returns a key which can be used for prefixed
// key store iteration. The prefix may be a clientType, clientID, or any
// valid key prefix which may be concatenated with the client store constant.
func PrefixedClientStoreKey(prefix []byte) []byte {
	return []byte(fmt.Sprintf("%s/%s/", KeyClientStorePrefix, prefix))
}

// ClientStateKey returns a store key under which a particular client state is stored
// in a client prefixed store
func ClientStateKey() []byte {
	return []byte(KeyClientState)
}

// FullConsensusStatePath takes a client identifier and returns a Path under which to
// store the consensus state of a client.
func FullConsensusStatePath(clientID string, height exported.Height) string {
	return FullClientPath(clientID, ConsensusStatePath(height))
}

// ConsensusStatePath returns the suffix store key for the consensus state at a
// particular height stored in a client prefixed store.
func ConsensusStatePath(height exported.Height) string {
	return fmt.Sprintf("%s/%s", KeyConsensusStatePrefix, height)
}

// ConsensusStateKey returns the store key for a the consensus state of a particular
// client stored in a client prefixed store.
func ConsensusStateKey(height exported.Height) []byte {
	return []byte(ConsensusStatePath(height))
}

// NextClientSequenceKey returns the key under which the next client sequence is stored.
func NextClientSequenceKey() []byte {
	return []byte(KeyNextClientSequence)
}

// UpgradedClientPath is the path under which a counterparty commits its upgraded client state
// for the upgrade planned at the given revision height.
func UpgradedClientPath(planHeight uint64) string {
	return fmt.Sprintf("%s/%d/%s", KeyUpgradedIBCState, planHeight, KeyUpgradedClient)
}

// UpgradedConsStatePath is the path under which a counterparty commits its upgraded consensus
// state for the upgrade planned at the given revision height.
func UpgradedConsStatePath(planHeight uint64) string {
	return fmt.Sprintf("%s/%d/%s", KeyUpgradedIBCState, planHeight, KeyUpgradedConsState)
}
