package tendermint

import (
	storetypes "github.com/cosmos/cosmos-sdk/store/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// getClientState retrieves the client state from the store. It returns false if the
// client state is not present.
func getClientState(clientStore storetypes.KVStore) (*ClientState, bool) {
	bz, found := clienttypes.GetClientStateBytes(clientStore)
	if !found {
		return nil, false
	}

	var clientState ClientState
	clienttypes.MustUnmarshal(bz, &clientState)
	return &clientState, true
}

// setClientState stores the client state
func setClientState(clientStore storetypes.KVStore, clientState *ClientState) {
	clienttypes.SetClientStateBytes(clientStore, clienttypes.MustMarshal(clientState))
}

// setConsensusState stores the consensus state at the given height together with its
// processed time, processed height and trusted height index entry.
func setConsensusState(clientStore storetypes.KVStore, clock exported.Clock, consensusState *ConsensusState, height exported.Height) {
	clienttypes.SetConsensusStateBytes(clientStore, clock, height, consensusState.Timestamp, clienttypes.MustMarshal(consensusState))
}

// GetConsensusState retrieves the consensus state from the client prefixed store.
// If the ConsensusState does not exist in state for the provided height a nil value and false boolean flag is returned
func GetConsensusState(clientStore storetypes.KVStore, height exported.Height) (*ConsensusState, bool) {
	bz, found := clienttypes.GetConsensusStateBytes(clientStore, height)
	if !found {
		return nil, false
	}

	var consensusState ConsensusState
	clienttypes.MustUnmarshal(bz, &consensusState)
	return &consensusState, true
}
