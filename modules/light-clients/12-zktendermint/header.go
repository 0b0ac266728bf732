package zktendermint

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Header = (*Header)(nil)

// Header carries the fields of a Tendermint header the client stores, and a Groth16 proof that
// the header was verified against the consensus state at TrustedHeight by the Tendermint light
// client rules.
type Header struct {
	Height             clienttypes.Height
	TrustedHeight      clienttypes.Height
	Timestamp          uint64
	AppHash            []byte
	NextValidatorsHash []byte
	Proof              []byte
}

// ConsensusState returns the consensus state the header attests to.
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{
		Timestamp:          h.Timestamp,
		Root:               commitmenttypes.NewMerkleRoot(h.AppHash),
		NextValidatorsHash: h.NextValidatorsHash,
	}
}

// ClientType is zk tendermint.
func (Header) ClientType() string {
	return exported.ZKTendermint
}

// GetHeight returns the height of the header.
func (h Header) GetHeight() exported.Height {
	return h.Height
}

// GetTrustedHeight returns the height of the consensus state the header is proven against.
func (h Header) GetTrustedHeight() exported.Height {
	return h.TrustedHeight
}

// GetTime returns the header time.
func (h Header) GetTime() time.Time {
	return clienttypes.TimestampToTime(h.Timestamp)
}

// PublicInput returns the public input of the header proof given the trusted consensus state.
func (h Header) PublicInput(chainID string, trusted *ConsensusState) PublicInput {
	return PublicInput{
		ChainID:                   chainID,
		TrustedHeight:             h.TrustedHeight,
		TrustedNextValidatorsHash: trusted.NextValidatorsHash,
		Height:                    h.Height,
		Timestamp:                 h.Timestamp,
		NextValidatorsHash:        h.NextValidatorsHash,
		AppHash:                   h.AppHash,
	}
}

// ValidateBasic checks the shape of the header. The proof itself is only decoded during
// verification.
func (h Header) ValidateBasic() error {
	if h.Height.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "header revision height cannot be zero")
	}
	if h.TrustedHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "trusted revision height cannot be zero")
	}
	if h.Timestamp == 0 {
		return sdkerrors.Wrap(ErrInvalidHeader, "timestamp must be a positive Unix time")
	}
	if len(h.AppHash) == 0 {
		return sdkerrors.Wrap(ErrInvalidHeader, "app hash cannot be empty")
	}
	if len(h.NextValidatorsHash) != HashSize {
		return sdkerrors.Wrapf(ErrInvalidHeader, "next validators hash must be %d bytes, got %d", HashSize, len(h.NextValidatorsHash))
	}
	if len(h.Proof) != ProofSize {
		return sdkerrors.Wrapf(ErrInvalidHeader, "proof must be %d bytes, got %d", ProofSize, len(h.Proof))
	}
	return nil
}
