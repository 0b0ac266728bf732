package arbitrum

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState is the state of a confirmed L2 block.
type ConsensusState struct {
	// unix nanoseconds of the block
	Timestamp uint64
	StateRoot []byte
	BlockHash []byte
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, stateRoot, blockHash []byte) *ConsensusState {
	return &ConsensusState{
		Timestamp: clienttypes.TimeToTimestamp(timestamp),
		StateRoot: stateRoot,
		BlockHash: blockHash,
	}
}

// ClientType returns Arbitrum.
func (ConsensusState) ClientType() string {
	return exported.Arbitrum
}

// GetRoot returns the L2 state root.
func (cs ConsensusState) GetRoot() []byte {
	return cs.StateRoot
}

// GetTimestamp returns the block time in nanoseconds.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the block time.
func (cs ConsensusState) GetTime() time.Time {
	return clienttypes.TimestampToTime(cs.Timestamp)
}

// ValidateBasic checks the timestamp and the hash sizes.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	if len(cs.StateRoot) != common.HashLength {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "state root must be %d bytes, got %d", common.HashLength, len(cs.StateRoot))
	}
	if len(cs.BlockHash) != common.HashLength {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "block hash must be %d bytes, got %d", common.HashLength, len(cs.BlockHash))
	}
	return nil
}
