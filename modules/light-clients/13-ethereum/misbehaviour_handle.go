package ethereum

import (
	"bytes"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// CheckForMisbehaviour runs the shared consensus state checks for a Header. A Misbehaviour is
// valid evidence if both updates finalize the same slot with different consensus states, or if
// Header1 is higher than Header2 without being later.
func (cs ClientState) CheckForMisbehaviour(clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	switch msg := msg.(type) {
	case *Header:
		consState, found := cs.headerConsensusState(clientStore, msg)
		if !found {
			return false
		}
		return clienttypes.CheckForMisbehaviour(clientStore, msg.GetHeight(), clienttypes.MustMarshal(consState), consState.Timestamp)
	case *Misbehaviour:
		if msg.Header1.FinalizedHeader.Slot == msg.Header2.FinalizedHeader.Slot {
			consState1, found1 := cs.headerConsensusState(clientStore, msg.Header1)
			consState2, found2 := cs.headerConsensusState(clientStore, msg.Header2)
			if !found1 || !found2 {
				return false
			}
			return !bytes.Equal(clienttypes.MustMarshal(consState1), clienttypes.MustMarshal(consState2))
		}
		timestamp1, err1 := cs.slotTimestamp(msg.Header1.FinalizedHeader.Slot)
		timestamp2, err2 := cs.slotTimestamp(msg.Header2.FinalizedHeader.Slot)
		if err1 != nil || err2 != nil {
			return false
		}
		return timestamp1 <= timestamp2
	}

	return false
}

func (cs ClientState) headerConsensusState(clientStore storetypes.KVStore, header *Header) (*ConsensusState, bool) {
	if _, err := cs.slotTimestamp(header.FinalizedHeader.Slot); err != nil {
		return nil, false
	}
	trusted, found := GetConsensusState(clientStore, header.TrustedHeight)
	if !found {
		return nil, false
	}
	return cs.consensusStateFromHeader(trusted, header), true
}

// verifyMisbehaviour checks that both updates would have been accepted against their trusted
// consensus states, which must still be within the trusting period.
func (cs *ClientState) verifyMisbehaviour(clientStore storetypes.KVStore, now time.Time, misbehaviour *Misbehaviour) error {
	if !cs.FrozenHeight.IsZero() {
		return sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	if err := cs.checkMisbehaviourHeader(clientStore, now, misbehaviour.Header1); err != nil {
		return sdkerrors.Wrap(err, "verifying Header1 in Misbehaviour failed")
	}
	if err := cs.checkMisbehaviourHeader(clientStore, now, misbehaviour.Header2); err != nil {
		return sdkerrors.Wrap(err, "verifying Header2 in Misbehaviour failed")
	}
	return nil
}

func (cs ClientState) checkMisbehaviourHeader(clientStore storetypes.KVStore, now time.Time, header *Header) error {
	trusted, found := GetConsensusState(clientStore, header.TrustedHeight)
	if !found {
		return sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "trusted consensus state not found at height %s", header.TrustedHeight)
	}

	if clienttypes.IsExpired(trusted.Timestamp, cs.TrustingPeriod.Std(), now) {
		return sdkerrors.Wrapf(clienttypes.ErrTrustingPeriodExpired, "trusted consensus state at height %s", header.TrustedHeight)
	}

	return cs.verifyUpdate(trusted, header)
}
