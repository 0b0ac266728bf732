package zktendermint

import (
	storetypes "github.com/cosmos/cosmos-sdk/store/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

func getClientState(clientStore storetypes.KVStore) (*ClientState, bool) {
	bz, found := clienttypes.GetClientStateBytes(clientStore)
	if !found {
		return nil, false
	}

	var clientState ClientState
	clienttypes.MustUnmarshal(bz, &clientState)
	return &clientState, true
}

func setClientState(clientStore storetypes.KVStore, clientState *ClientState) {
	clienttypes.SetClientStateBytes(clientStore, clienttypes.MustMarshal(clientState))
}

func setConsensusState(clientStore storetypes.KVStore, clock exported.Clock, consensusState *ConsensusState, height exported.Height) {
	clienttypes.SetConsensusStateBytes(clientStore, clock, height, consensusState.Timestamp, clienttypes.MustMarshal(consensusState))
}

// GetConsensusState returns the consensus state stored at height.
func GetConsensusState(clientStore storetypes.KVStore, height exported.Height) (*ConsensusState, bool) {
	bz, found := clienttypes.GetConsensusStateBytes(clientStore, height)
	if !found {
		return nil, false
	}

	var consensusState ConsensusState
	clienttypes.MustUnmarshal(bz, &consensusState)
	return &consensusState, true
}
