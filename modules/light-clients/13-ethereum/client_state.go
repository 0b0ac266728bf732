package ethereum

import (
	"bytes"
	"context"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState tracks the finalized beacon chain of an Ethereum network. Heights are
// (0, finalized slot).
type ClientState struct {
	GenesisValidatorsRoot []byte
	// unix seconds
	GenesisTime                  uint64
	ForkParameters               ForkParameters
	SecondsPerSlot               uint64
	SlotsPerEpoch                uint64
	EpochsPerSyncCommitteePeriod uint64
	TrustingPeriod               clienttypes.Duration
	MaxClockDrift                clienttypes.Duration
	FrozenHeight                 clienttypes.Height
	LatestHeight                 clienttypes.Height
	// contract keeping the IBC commitments and the slot of its commitments mapping
	IBCContractAddress []byte
	IBCCommitmentSlot  []byte
	AllowedRelayers    []string
}

// ClientType is ethereum.
func (ClientState) ClientType() string {
	return exported.Ethereum
}

// GetLatestHeight returns the latest finalized slot.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if len(cs.GenesisValidatorsRoot) != RootSize {
		return sdkerrors.Wrapf(ErrInvalidGenesisValidatorsRoot, "must be %d bytes, got %d", RootSize, len(cs.GenesisValidatorsRoot))
	}
	if err := cs.ForkParameters.Validate(); err != nil {
		return err
	}
	if cs.SecondsPerSlot == 0 || cs.SlotsPerEpoch == 0 || cs.EpochsPerSyncCommitteePeriod == 0 {
		return sdkerrors.Wrap(ErrInvalidChainSpec, "seconds per slot, slots per epoch and epochs per sync committee period must be positive")
	}
	if cs.TrustingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.MaxClockDrift <= 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != 0 {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight, "latest height revision number must be 0, got %d", cs.LatestHeight.RevisionNumber)
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "latest height revision height cannot be zero")
	}
	if len(cs.IBCContractAddress) != common.AddressLength {
		return sdkerrors.Wrapf(ErrInvalidIBCContract, "contract address must be %d bytes, got %d", common.AddressLength, len(cs.IBCContractAddress))
	}
	if len(cs.IBCCommitmentSlot) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidIBCContract, "commitment slot must be %d bytes, got %d", common.HashLength, len(cs.IBCCommitmentSlot))
	}
	return clienttypes.ValidateRelayers(cs.AllowedRelayers)
}

// status returns Frozen if the client was frozen, Expired if the consensus state at the latest
// height is missing or outside the trusting period, and Active otherwise.
func (cs ClientState) status(clientStore storetypes.KVStore, now time.Time) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	consState, found := GetConsensusState(clientStore, cs.LatestHeight)
	if !found {
		return exported.Expired
	}
	if clienttypes.IsExpired(consState.Timestamp, cs.TrustingPeriod.Std(), now) {
		return exported.Expired
	}
	return exported.Active
}

func (ClientState) getTimestampAtHeight(clientStore storetypes.KVStore, height exported.Height) (uint64, error) {
	consState, found := GetConsensusState(clientStore, height)
	if !found {
		return 0, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}
	return consState.GetTimestamp(), nil
}

// initialize stores the client with its trusted consensus state. The consensus state must be at
// the latest slot, at that slot's time, and know the next sync committee. A restricted client
// may only be created by one of its relayers.
func (cs ClientState) initialize(ctx context.Context, clientStore storetypes.KVStore, clock exported.Clock, consState exported.ConsensusState) error {
	consensusState, ok := consState.(*ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consState)
	}

	if consensusState.Slot != cs.LatestHeight.RevisionHeight {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "consensus state slot %d does not match latest height %s", consensusState.Slot, cs.LatestHeight)
	}
	slotTimestamp, err := cs.slotTimestamp(consensusState.Slot)
	if err != nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, err.Error())
	}
	if consensusState.Timestamp != slotTimestamp {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "consensus state timestamp %d is not the time of slot %d", consensusState.Timestamp, consensusState.Slot)
	}
	if len(consensusState.NextSyncCommitteeRoot) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "next sync committee root cannot be empty")
	}

	if err := clienttypes.AuthorizeRelayer(ctx, cs.AllowedRelayers); err != nil {
		return err
	}

	if err := clienttypes.CheckCreationStatus(cs.FrozenHeight, consensusState.GetTimestamp(), cs.TrustingPeriod.Std(), clock.Now()); err != nil {
		return err
	}

	setClientState(clientStore, &cs)
	setConsensusState(clientStore, clock, consensusState, cs.LatestHeight)
	return nil
}

// commitmentVerifier returns the verifier of the IBC contract storage.
func (cs ClientState) commitmentVerifier() mpt.Verifier {
	return mpt.NewVerifier(common.BytesToAddress(cs.IBCContractAddress), common.BytesToHash(cs.IBCCommitmentSlot))
}

// verifyMembership checks a storage proof of the commitment of value at path against the
// execution state root stored at height.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	consensusState, err := cs.provenState(clientStore, clock, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return cs.commitmentVerifier().VerifyMembership(consensusState.StateRoot, path, value, proof)
}

// verifyNonMembership checks a storage proof that no commitment is stored at path against the
// execution state root stored at height.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	consensusState, err := cs.provenState(clientStore, clock, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return cs.commitmentVerifier().VerifyNonMembership(consensusState.StateRoot, path, proof)
}

func (cs ClientState) provenState(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
) (*ConsensusState, error) {
	if !cs.FrozenHeight.IsZero() {
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	if cs.LatestHeight.LT(height) {
		return nil, sdkerrors.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	if err := clienttypes.VerifyDelayPeriodPassed(clientStore, clock, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return nil, err
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}
	return consensusState, nil
}

// consensusStateFromHeader returns the consensus state a verified header moves the client to
// from trusted. The committee of the finalized period is the trusted current committee if the
// update stays within the trusted period, and the trusted next committee otherwise.
func (cs ClientState) consensusStateFromHeader(trusted *ConsensusState, header *Header) *ConsensusState {
	current := trusted.CurrentSyncCommitteeRoot
	if cs.computeSyncCommitteePeriod(header.FinalizedHeader.Slot) != cs.computeSyncCommitteePeriod(trusted.Slot) {
		current = trusted.NextSyncCommitteeRoot
	}
	next := header.NextSyncCommittee.HashTreeRoot()

	return &ConsensusState{
		Slot:                     header.FinalizedHeader.Slot,
		Timestamp:                cs.mustSlotTimestamp(header.FinalizedHeader.Slot),
		StateRoot:                bytes.Clone(header.ExecutionStateRoot),
		CurrentSyncCommitteeRoot: bytes.Clone(current),
		NextSyncCommitteeRoot:    next[:],
	}
}
