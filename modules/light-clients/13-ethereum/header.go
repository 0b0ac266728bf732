package ethereum

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Header = (*Header)(nil)

// Header is a sync committee light client update. The committee of the signature slot signs
// AttestedHeader, whose state commits to FinalizedHeader and to NextSyncCommittee. The body
// of FinalizedHeader commits to ExecutionStateRoot.
type Header struct {
	TrustedHeight clienttypes.Height
	SignatureSlot uint64

	AttestedHeader  BeaconBlockHeader
	FinalizedHeader BeaconBlockHeader
	FinalityBranch  [][]byte

	ExecutionStateRoot []byte
	ExecutionBranch    [][]byte

	// committee which signed the attested header
	SyncCommittee           SyncCommittee
	NextSyncCommittee       SyncCommittee
	NextSyncCommitteeBranch [][]byte

	SyncAggregate SyncAggregate
}

// ClientType is ethereum.
func (Header) ClientType() string {
	return exported.Ethereum
}

// GetHeight returns the finalized slot.
func (h Header) GetHeight() exported.Height {
	return clienttypes.NewHeight(0, h.FinalizedHeader.Slot)
}

// GetTrustedHeight returns the height of the consensus state the update is verified against.
func (h Header) GetTrustedHeight() exported.Height {
	return h.TrustedHeight
}

// ValidateBasic checks the shape of the update. Keys and signature are only decoded during
// verification.
func (h Header) ValidateBasic() error {
	if h.TrustedHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "trusted revision height cannot be zero")
	}
	if h.FinalizedHeader.Slot == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "finalized slot cannot be zero")
	}
	if h.SignatureSlot <= h.AttestedHeader.Slot {
		return sdkerrors.Wrapf(ErrInvalidHeader, "signature slot %d must be greater than attested slot %d", h.SignatureSlot, h.AttestedHeader.Slot)
	}
	if h.AttestedHeader.Slot < h.FinalizedHeader.Slot {
		return sdkerrors.Wrapf(ErrInvalidHeader, "attested slot %d cannot be less than finalized slot %d", h.AttestedHeader.Slot, h.FinalizedHeader.Slot)
	}

	if err := validateBlockHeader(h.AttestedHeader); err != nil {
		return sdkerrors.Wrap(err, "attested header")
	}
	if err := validateBlockHeader(h.FinalizedHeader); err != nil {
		return sdkerrors.Wrap(err, "finalized header")
	}
	if len(h.ExecutionStateRoot) != RootSize {
		return sdkerrors.Wrapf(ErrInvalidHeader, "execution state root must be %d bytes, got %d", RootSize, len(h.ExecutionStateRoot))
	}

	if err := validateBranch(h.FinalityBranch, FinalizedRootGindex); err != nil {
		return sdkerrors.Wrap(err, "finality branch")
	}
	if err := validateBranch(h.ExecutionBranch, ExecutionStateRootGindex); err != nil {
		return sdkerrors.Wrap(err, "execution branch")
	}
	if err := validateBranch(h.NextSyncCommitteeBranch, NextSyncCommitteeGindex); err != nil {
		return sdkerrors.Wrap(err, "next sync committee branch")
	}

	if err := h.SyncCommittee.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "sync committee")
	}
	if err := h.NextSyncCommittee.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "next sync committee")
	}
	return h.SyncAggregate.ValidateBasic()
}

func validateBlockHeader(header BeaconBlockHeader) error {
	if len(header.ParentRoot) != RootSize || len(header.StateRoot) != RootSize || len(header.BodyRoot) != RootSize {
		return sdkerrors.Wrapf(ErrInvalidHeader, "block roots must be %d bytes", RootSize)
	}
	return nil
}

func validateBranch(branch [][]byte, gindex uint64) error {
	if depth := floorLog2(gindex); len(branch) != depth {
		return sdkerrors.Wrapf(ErrInvalidHeader, "expected %d nodes, got %d", depth, len(branch))
	}
	for i, node := range branch {
		if len(node) != RootSize {
			return sdkerrors.Wrapf(ErrInvalidHeader, "node %d must be %d bytes, got %d", i, RootSize, len(node))
		}
	}
	return nil
}
