package types

import (
	"bytes"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// CheckForMisbehaviour reports whether storing the encoded consensus state consensusStateBz, with
// the given timestamp, at height would contradict what the client already trusts:
//
//  1. a different consensus state is already stored at height
//  2. the next stored consensus state by height has a timestamp not after timestamp
//  3. the previous stored consensus state by height has a timestamp not before timestamp
//
// A consensus state identical to the stored one is not misbehaviour, headers may be resubmitted.
// It never writes to the store.
func CheckForMisbehaviour(clientStore storetypes.KVStore, height exported.Height, consensusStateBz []byte, timestamp uint64) bool {
	if existing, found := GetConsensusStateBytes(clientStore, height); found {
		return !bytes.Equal(existing, consensusStateBz)
	}

	index := NewTrustedHeightIndex(clientStore)

	// time must increase monotonically with height
	if _, nextTimestamp, found := index.Next(height); found && nextTimestamp <= timestamp {
		return true
	}

	if _, prevTimestamp, found := index.Prev(height); found && prevTimestamp >= timestamp {
		return true
	}

	return false
}

// FrozenHeight is the frozen height set when misbehaviour carries no height of its own. Clients
// treat the frozen height as a boolean, any non-zero value freezes the client.
var FrozenHeight = NewHeight(0, 1)

// MisbehaviourHeight returns the height a client is frozen at for clientMsg: the height of the
// conflicting header, or of the higher header of explicit evidence. Messages without a non-zero
// height freeze the client at FrozenHeight.
func MisbehaviourHeight(clientMsg exported.ClientMessage) Height {
	msg, ok := clientMsg.(interface{ GetHeight() exported.Height })
	if !ok {
		return FrozenHeight
	}
	height, ok := msg.GetHeight().(Height)
	if !ok || height.IsZero() {
		return FrozenHeight
	}
	return height
}
