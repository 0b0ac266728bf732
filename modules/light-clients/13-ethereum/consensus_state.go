package ethereum

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState is the state of the beacon chain at a finalized slot: the execution state
// root of its block and the roots of the sync committees of its period and of the next one.
type ConsensusState struct {
	Slot uint64
	// unix nanoseconds of the start of the slot
	Timestamp                uint64
	StateRoot                []byte
	CurrentSyncCommitteeRoot []byte
	NextSyncCommitteeRoot    []byte
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(slot uint64, timestamp time.Time, stateRoot, currentSyncCommitteeRoot, nextSyncCommitteeRoot []byte) *ConsensusState {
	return &ConsensusState{
		Slot:                     slot,
		Timestamp:                clienttypes.TimeToTimestamp(timestamp),
		StateRoot:                stateRoot,
		CurrentSyncCommitteeRoot: currentSyncCommitteeRoot,
		NextSyncCommitteeRoot:    nextSyncCommitteeRoot,
	}
}

// ClientType returns Ethereum.
func (ConsensusState) ClientType() string {
	return exported.Ethereum
}

// GetRoot returns the execution state root.
func (cs ConsensusState) GetRoot() []byte {
	return cs.StateRoot
}

// GetTimestamp returns the slot time in nanoseconds.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the slot time.
func (cs ConsensusState) GetTime() time.Time {
	return clienttypes.TimestampToTime(cs.Timestamp)
}

// ValidateBasic checks the root sizes. The next sync committee root may be unknown.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	if len(cs.StateRoot) != RootSize {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "state root must be %d bytes, got %d", RootSize, len(cs.StateRoot))
	}
	if len(cs.CurrentSyncCommitteeRoot) != RootSize {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "current sync committee root must be %d bytes, got %d", RootSize, len(cs.CurrentSyncCommitteeRoot))
	}
	if n := len(cs.NextSyncCommitteeRoot); n != 0 && n != RootSize {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "next sync committee root must be empty or %d bytes, got %d", RootSize, n)
	}
	return nil
}
