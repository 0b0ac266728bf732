package tendermint

import (
	"bytes"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/light"
	tmtypes "github.com/tendermint/tendermint/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// VerifyClientMessage checks if the clientMessage is of type Header or Misbehaviour and verifies the message
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

// VerifyHeader returns an error if:
// - the client or header provided are not parseable to tendermint types
// - the header is invalid
// - header height is less than or equal to the trusted header height
// - header revision is not equal to trusted header revision
// - header valset commit verification fails
// - header timestamp is past the trusting period in relation to the consensus state
// - header timestamp is less than or equal to the consensus state timestamp
//
// On success the consensus state derived from the header is returned, together with the
// client state advanced to the header height when the header is newer than the latest height.
func (cs *ClientState) VerifyHeader(clientStore storetypes.KVStore, now time.Time, header *Header) (clienttypes.StateUpdate, error) {
	if !cs.FrozenHeight.IsZero() {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	preconditions := clienttypes.HeaderPreconditions{
		TrustedHeight:  header.TrustedHeight,
		Height:         header.GetHeight(),
		Timestamp:      header.GetTime(),
		TrustingPeriod: cs.TrustingPeriod.Std(),
		MaxClockDrift:  cs.MaxClockDrift.Std(),
	}
	consState, found := GetConsensusState(clientStore, header.TrustedHeight)
	if found {
		// a nil *ConsensusState must not be stored in the interface field
		preconditions.TrustedState = consState
	}
	if err := preconditions.Check(now); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	if err := checkTrustedHeader(header, consState); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	tmSignedHeader, err := tmtypes.SignedHeaderFromProto(header.SignedHeader)
	if err != nil {
		return clienttypes.StateUpdate{}, sdkerrors.Wrap(err, "signed header is not tendermint signed header type")
	}

	tmValidatorSet, err := tmtypes.ValidatorSetFromProto(header.ValidatorSet)
	if err != nil {
		return clienttypes.StateUpdate{}, sdkerrors.Wrap(err, "validator set is not tendermint validator set type")
	}

	tmTrustedValidators, err := tmtypes.ValidatorSetFromProto(header.TrustedValidators)
	if err != nil {
		return clienttypes.StateUpdate{}, sdkerrors.Wrap(err, "trusted validator set is not tendermint validator set type")
	}

	// Construct a trusted header using the fields in consensus state
	// Only NextValidatorsHash is used for verification, chainID and time
	// must be set so light.Verify accepts the trusted header
	trustedHeader := tmtypes.Header{
		ChainID:            cs.GetChainID(),
		Height:             int64(header.TrustedHeight.RevisionHeight),
		Time:               consState.GetTime(),
		NextValidatorsHash: consState.NextValidatorsHash,
	}
	signedHeader := tmtypes.SignedHeader{
		Header: &trustedHeader,
	}

	// Verify next header with the passed-in trustedVals
	// - asserts trusting period not passed
	// - assert header timestamp is not past the trusting period
	// - assert header timestamp is past latest stored consensus state timestamp
	// - assert that a TrustLevel proportion of TrustedValidators signed new Commit
	// The validator set of the next height is used when the header is adjacent to the
	// trusted height, the trusted validator set otherwise.
	// light.Verify treats a trusted header expiring exactly at now as expired, the trusted
	// state stays valid through the end of its trusting period so it gets one more nanosecond.
	err = light.Verify(
		&signedHeader,
		tmTrustedValidators, tmSignedHeader, tmValidatorSet,
		cs.TrustingPeriod.Std()+time.Nanosecond, now, cs.MaxClockDrift.Std(), cs.TrustLevel.ToTendermint(),
	)
	if err != nil {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(clienttypes.ErrVerificationFailed, "failed to verify header at height %s", header.GetHeight())
	}

	update := clienttypes.StateUpdate{
		ConsensusState: header.ConsensusState(),
	}
	if height := clienttypes.MustHeight(header.GetHeight()); height.GT(cs.LatestHeight) {
		newClientState := *cs
		newClientState.LatestHeight = height
		update.ClientState = &newClientState
	}
	return update, nil
}

// UpdateState may be used to either create a consensus state for:
// - a future height greater than the latest client state height
// - a past height that was skipped during bisection
// If we are updating to a past height, a consensus state is created for that height to be persisted in client store
// If we are updating to a future height, the consensus state is created and the client state is updated to reflect
// the new latest height
// A list containing the updated consensus height is returned.
// UpdateState must only be used to update within a single revision, thus header revision number and trusted height's revision
// number must be the same. To update to a new revision, use a separate upgrade path
// UpdateState will prune the oldest consensus state if it is expired.
// If the provided clientMsg is not of type of Header then the handler will noop and empty slice is returned.
func (cs ClientState) UpdateState(clientStore storetypes.KVStore, clock exported.Clock, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		// clientMessage is invalid Misbehaviour, no state changes are made
		return []exported.Height{}
	}

	height := clienttypes.MustHeight(header.GetHeight())

	// check for duplicate update
	if clienttypes.HasConsensusState(clientStore, height) {
		// perform no-op
		return []exported.Height{height}
	}

	cs.pruneOldestConsensusState(clientStore, clock.Now())

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setConsensusState(clientStore, clock, header.ConsensusState(), height)
	setClientState(clientStore, &cs)

	return []exported.Height{height}
}

// pruneOldestConsensusState removes the oldest consensus states which are expired, a bounded
// number per call. The latest consensus state is never removed.
func (cs ClientState) pruneOldestConsensusState(clientStore storetypes.KVStore, now time.Time) {
	clienttypes.PruneExpiredConsensusStates(clientStore, cs.LatestHeight, cs.TrustingPeriod.Std(), now, clienttypes.DefaultPruneLimit)
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour, freezing the ClientState. This method should only be called when misbehaviour is detected
// as it does not perform any misbehaviour checks.
func (cs ClientState) UpdateStateOnMisbehaviour(clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	cs.FrozenHeight = clienttypes.MisbehaviourHeight(clientMsg)

	setClientState(clientStore, &cs)
}

// checkTrustedHeader checks that consensus state matches trusted fields of Header
func checkTrustedHeader(header *Header, consState *ConsensusState) error {
	if header.TrustedValidators == nil {
		return sdkerrors.Wrap(ErrInvalidValidatorSet, "trusted validator set in header cannot be empty")
	}

	tmTrustedValidators, err := tmtypes.ValidatorSetFromProto(header.TrustedValidators)
	if err != nil {
		return sdkerrors.Wrap(err, "trusted validator set is not tendermint validator set type")
	}

	// assert that trustedVals is NextValidators of last trusted header
	// to do this, we check that trustedVals.Hash() == consState.NextValidatorsHash
	tvalHash := tmTrustedValidators.Hash()
	if !bytes.Equal(consState.NextValidatorsHash, tvalHash) {
		return sdkerrors.Wrapf(
			clienttypes.ErrTrustedValidatorsMismatch,
			"trusted validators %s, does not hash to latest trusted validators. Expected: %X, got: %X",
			header.TrustedValidators, consState.NextValidatorsHash, tvalHash,
		)
	}
	return nil
}
