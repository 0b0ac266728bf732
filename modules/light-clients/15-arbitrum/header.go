package arbitrum

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Header = (*Header)(nil)

// Header imports an L2 block asserted by rollup node NodeNumber. The proofs are rooted in the
// state of the parent chain at L1Height: the account of the rollup contract, the slot holding
// the latest confirmed node and the confirm data slot of the node.
type Header struct {
	TrustedHeight clienttypes.Height
	L1Height      clienttypes.Height

	L2Header   *types.Header
	NodeNumber uint64

	AccountProof         mpt.Proof
	LatestConfirmedProof mpt.Proof
	ConfirmDataProof     mpt.Proof
}

// ClientType is arbitrum.
func (Header) ClientType() string {
	return exported.Arbitrum
}

// GetHeight returns the L2 block number.
func (h Header) GetHeight() exported.Height {
	if h.L2Header == nil || h.L2Header.Number == nil {
		return clienttypes.ZeroHeight()
	}
	return clienttypes.NewHeight(0, h.L2Header.Number.Uint64())
}

// GetTrustedHeight returns the height of the consensus state the header is checked against.
func (h Header) GetTrustedHeight() exported.Height {
	return h.TrustedHeight
}

// GetTime returns the L2 block time.
func (h Header) GetTime() time.Time {
	return time.Unix(int64(h.L2Header.Time), 0).UTC()
}

// BlockHash returns the hash of the L2 block.
func (h Header) BlockHash() common.Hash {
	return h.L2Header.Hash()
}

// SendRoot returns the root of the L2 to L1 messages of the block, kept in the extra data of
// Arbitrum block headers.
func (h Header) SendRoot() common.Hash {
	return common.BytesToHash(h.L2Header.Extra)
}

// ValidateBasic checks the heights, the shape of the L2 header and that every proof is present.
func (h Header) ValidateBasic() error {
	if h.TrustedHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "trusted revision height cannot be zero")
	}
	if h.L1Height.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "parent chain revision height cannot be zero")
	}
	if h.L2Header == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "L2 header cannot be nil")
	}
	if h.L2Header.Number == nil || h.L2Header.Number.Sign() <= 0 || !h.L2Header.Number.IsUint64() {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight, "L2 block number %v must be a positive uint64", h.L2Header.Number)
	}
	if h.L2Header.Time == 0 {
		return sdkerrors.Wrap(ErrInvalidHeader, "L2 block time cannot be zero")
	}
	if len(h.L2Header.Extra) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidHeader, "L2 header extra data must hold the %d byte send root, got %d bytes", common.HashLength, len(h.L2Header.Extra))
	}
	if h.NodeNumber == 0 {
		return sdkerrors.Wrap(ErrInvalidHeader, "node number cannot be zero")
	}
	if len(h.AccountProof) == 0 || len(h.LatestConfirmedProof) == 0 || len(h.ConfirmDataProof) == 0 {
		return sdkerrors.Wrap(ErrInvalidHeader, "rollup proofs cannot be empty")
	}
	return nil
}
