package zktendermint

import (
	"bytes"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// CheckForMisbehaviour runs the shared consensus state checks for a Header. A Misbehaviour is
// valid evidence if both headers are at the same height with different consensus states, or if
// Header1 is higher than Header2 without being later.
func (ClientState) CheckForMisbehaviour(clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	switch msg := msg.(type) {
	case *Header:
		consState := msg.ConsensusState()
		return clienttypes.CheckForMisbehaviour(clientStore, msg.Height, clienttypes.MustMarshal(consState), consState.Timestamp)
	case *Misbehaviour:
		if msg.Header1.Height.EQ(msg.Header2.Height) {
			return !bytes.Equal(clienttypes.MustMarshal(msg.Header1.ConsensusState()), clienttypes.MustMarshal(msg.Header2.ConsensusState()))
		}
		return msg.Header1.Timestamp <= msg.Header2.Timestamp
	}

	return false
}

// verifyMisbehaviour checks that both headers would have been accepted against their trusted
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

	return cs.verifyHeaderProof(trusted, header)
}
