package zktendermint

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState is the state of the counterparty at a proven header: its time, its app hash
// and the hash of the validator set which signs the next header.
type ConsensusState struct {
	// unix nanoseconds
	Timestamp          uint64
	Root               commitmenttypes.MerkleRoot
	NextValidatorsHash []byte
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, root commitmenttypes.MerkleRoot, nextValsHash []byte) *ConsensusState {
	return &ConsensusState{
		Timestamp:          clienttypes.TimeToTimestamp(timestamp),
		Root:               root,
		NextValidatorsHash: nextValsHash,
	}
}

// ClientType returns ZKTendermint.
func (ConsensusState) ClientType() string {
	return exported.ZKTendermint
}

// GetRoot returns the app hash.
func (cs ConsensusState) GetRoot() []byte {
	return cs.Root.GetHash()
}

// GetTimestamp returns the header time in nanoseconds.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the header time.
func (cs ConsensusState) GetTime() time.Time {
	return clienttypes.TimestampToTime(cs.Timestamp)
}

// ValidateBasic checks that the root is set, the next validators hash is a sha256 hash and the
// timestamp is positive.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if len(cs.NextValidatorsHash) != HashSize {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "next validators hash must be %d bytes, got %d", HashSize, len(cs.NextValidatorsHash))
	}
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	return nil
}
