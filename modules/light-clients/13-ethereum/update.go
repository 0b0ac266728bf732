package ethereum

import (
	"bytes"
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
// the update itself. On success the consensus state at the finalized slot is returned,
// together with the client state advanced to it when it is newer than the latest height.
func (cs *ClientState) VerifyHeader(clientStore storetypes.KVStore, now time.Time, header *Header) (clienttypes.StateUpdate, error) {
	if !cs.FrozenHeight.IsZero() {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	timestamp, err := cs.slotTimestamp(header.FinalizedHeader.Slot)
	if err != nil {
		return clienttypes.StateUpdate{}, err
	}

	height := header.GetHeight()
	preconditions := clienttypes.HeaderPreconditions{
		TrustedHeight:  header.TrustedHeight,
		Height:         height,
		Timestamp:      clienttypes.TimestampToTime(timestamp),
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

	if err := cs.verifyUpdate(trusted, header); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	update := clienttypes.StateUpdate{
		ConsensusState: cs.consensusStateFromHeader(trusted, header),
	}
	if height.GT(cs.LatestHeight) {
		newClientState := *cs
		newClientState.LatestHeight = clienttypes.MustHeight(height)
		update.ClientState = &newClientState
	}
	return update, nil
}

// verifyUpdate checks a light client update against the sync committees known to trusted: the
// signing committee must be the trusted committee of the signature period, the finalized
// header, the next committee and the execution state root must be proven by their branches,
// and at least two thirds of the committee must have signed the attested header.
func (cs ClientState) verifyUpdate(trusted *ConsensusState, header *Header) error {
	if _, err := cs.slotTimestamp(header.FinalizedHeader.Slot); err != nil {
		return err
	}

	trustedPeriod := cs.computeSyncCommitteePeriod(trusted.Slot)
	signaturePeriod := cs.computeSyncCommitteePeriod(header.SignatureSlot)
	attestedPeriod := cs.computeSyncCommitteePeriod(header.AttestedHeader.Slot)
	finalizedPeriod := cs.computeSyncCommitteePeriod(header.FinalizedHeader.Slot)

	if attestedPeriod != finalizedPeriod {
		return sdkerrors.Wrapf(ErrInvalidSyncCommitteePeriod, "attested period %d does not match finalized period %d", attestedPeriod, finalizedPeriod)
	}

	var committeeRoot []byte
	switch signaturePeriod {
	case trustedPeriod:
		committeeRoot = trusted.CurrentSyncCommitteeRoot
	case trustedPeriod + 1:
		if len(trusted.NextSyncCommitteeRoot) == 0 {
			return sdkerrors.Wrapf(ErrInvalidSyncCommitteePeriod, "next sync committee of period %d is unknown", trustedPeriod)
		}
		committeeRoot = trusted.NextSyncCommitteeRoot
	default:
		return sdkerrors.Wrapf(ErrInvalidSyncCommitteePeriod, "signature period %d must be trusted period %d or the next one", signaturePeriod, trustedPeriod)
	}

	if root := header.SyncCommittee.HashTreeRoot(); !bytes.Equal(root[:], committeeRoot) {
		return sdkerrors.Wrapf(clienttypes.ErrTrustedValidatorsMismatch, "sync committee of period %d does not match the trusted root", signaturePeriod)
	}

	if !IsValidMerkleBranch(header.FinalizedHeader.HashTreeRoot(), header.FinalityBranch, FinalizedRootGindex, header.AttestedHeader.StateRoot) {
		return sdkerrors.Wrap(ErrInvalidUpdateProof, "invalid finality branch")
	}
	if !IsValidMerkleBranch(header.NextSyncCommittee.HashTreeRoot(), header.NextSyncCommitteeBranch, NextSyncCommitteeGindex, header.AttestedHeader.StateRoot) {
		return sdkerrors.Wrap(ErrInvalidUpdateProof, "invalid next sync committee branch")
	}
	if !IsValidMerkleBranch(toRoot(header.ExecutionStateRoot), header.ExecutionBranch, ExecutionStateRootGindex, header.FinalizedHeader.BodyRoot) {
		return sdkerrors.Wrap(ErrInvalidUpdateProof, "invalid execution branch")
	}

	domain := ComputeDomain(DomainSyncCommittee, cs.signatureForkVersion(header.SignatureSlot), cs.GenesisValidatorsRoot)
	signingRoot := ComputeSigningRoot(header.AttestedHeader.HashTreeRoot(), domain)
	return verifySyncAggregate(header.SyncCommittee, header.SyncAggregate, signingRoot)
}

// UpdateState stores the consensus state of a verified header and advances the latest height.
// A header whose finalized slot is already stored is a no-op. Up to DefaultPruneLimit expired
// consensus states are pruned once the new consensus state is computed.
func (cs ClientState) UpdateState(clientStore storetypes.KVStore, clock exported.Clock, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}

	height := clienttypes.MustHeight(header.GetHeight())
	if clienttypes.HasConsensusState(clientStore, height) {
		return []exported.Height{height}
	}

	trusted, found := GetConsensusState(clientStore, header.TrustedHeight)
	if !found {
		panic(sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "trusted consensus state at height %s", header.TrustedHeight))
	}
	consensusState := cs.consensusStateFromHeader(trusted, header)

	clienttypes.PruneExpiredConsensusStates(clientStore, cs.LatestHeight, cs.TrustingPeriod.Std(), clock.Now(), clienttypes.DefaultPruneLimit)

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setConsensusState(clientStore, clock, consensusState, height)
	setClientState(clientStore, &cs)

	return []exported.Height{height}
}

// UpdateStateOnMisbehaviour freezes the client at the height of the misbehaviour.
func (cs ClientState) UpdateStateOnMisbehaviour(clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	cs.FrozenHeight = clienttypes.MisbehaviourHeight(clientMsg)

	setClientState(clientStore, &cs)
}
