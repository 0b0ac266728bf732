package zktendermint

import (
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// VerifyClientMessage verifies a Header or a Misbehaviour.
func (cs *ClientState) VerifyClientMessage(clientStore storetypes.KVStore, now time.Time, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		_, err := cs.VerifyHeader(clientStore, now, msg)
		return err
	case *Misbehaviour:
		return cs.verifyMisbehaviour(clientStore, now, msg)
	default:
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T or %T, got %T", &Header{}, &Misbehaviour{}, clientMsg)
	}
}

// VerifyHeader checks the header preconditions against the trusted consensus state and then
// the header proof. On success the consensus state of the header is returned, together with
// the client state advanced to the header height when the header is newer than the latest height.
func (cs *ClientState) VerifyHeader(clientStore storetypes.KVStore, now time.Time, header *Header) (clienttypes.StateUpdate, error) {
	if !cs.FrozenHeight.IsZero() {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	preconditions := clienttypes.HeaderPreconditions{
		TrustedHeight:  header.TrustedHeight,
		Height:         header.Height,
		Timestamp:      header.GetTime(),
		TrustingPeriod: cs.TrustingPeriod.Std(),
		MaxClockDrift:  cs.MaxClockDrift.Std(),
	}
	trusted, found := GetConsensusState(clientStore, header.TrustedHeight)
	if found {
		preconditions.TrustedState = trusted
	}
	if err := preconditions.Check(now); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	if err := cs.verifyHeaderProof(trusted, header); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	update := clienttypes.StateUpdate{
		ConsensusState: header.ConsensusState(),
	}
	if header.Height.GT(cs.LatestHeight) {
		newClientState := *cs
		newClientState.LatestHeight = header.Height
		update.ClientState = &newClientState
	}
	return update, nil
}

// verifyHeaderProof checks the Groth16 proof of the header transition from trusted. Decoding
// and pairing failures are reported alike.
func (cs ClientState) verifyHeaderProof(trusted *ConsensusState, header *Header) error {
	vk, err := CachedVerifyingKey(cs.VerifyingKey)
	if err != nil {
		return err
	}

	proof, err := DecodeGroth16Proof(header.Proof)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidZKP, "header at height %s", header.Height)
	}

	if !vk.Verify(proof, header.PublicInput(cs.ChainID, trusted).Element()) {
		return sdkerrors.Wrapf(ErrInvalidZKP, "header at height %s", header.Height)
	}
	return nil
}

// UpdateState stores the consensus state of a verified header and advances the latest height.
// A header whose height is already stored is a no-op. Up to DefaultPruneLimit expired
// consensus states are pruned first.
func (cs ClientState) UpdateState(clientStore storetypes.KVStore, clock exported.Clock, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}

	height := header.Height
	if clienttypes.HasConsensusState(clientStore, height) {
		return []exported.Height{height}
	}

	clienttypes.PruneExpiredConsensusStates(clientStore, cs.LatestHeight, cs.TrustingPeriod.Std(), clock.Now(), clienttypes.DefaultPruneLimit)

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setConsensusState(clientStore, clock, header.ConsensusState(), height)
	setClientState(clientStore, &cs)

	return []exported.Height{height}
}

// UpdateStateOnMisbehaviour freezes the client at the height of the misbehaviour.
func (cs ClientState) UpdateStateOnMisbehaviour(clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	cs.FrozenHeight = clienttypes.MisbehaviourHeight(clientMsg)

	setClientState(clientStore, &cs)
}
