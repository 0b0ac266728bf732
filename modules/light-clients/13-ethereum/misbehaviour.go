package ethereum

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Misbehaviour = (*Misbehaviour)(nil)

// Misbehaviour is two signed updates which contradict each other.
type Misbehaviour struct {
	ClientID string
	Header1  *Header
	Header2  *Header
}

// NewMisbehaviour creates a new Misbehaviour instance.
func NewMisbehaviour(clientID string, header1, header2 *Header) *Misbehaviour {
	return &Misbehaviour{
		ClientID: clientID,
		Header1:  header1,
		Header2:  header2,
	}
}

// ClientType is ethereum.
func (Misbehaviour) ClientType() string {
	return exported.Ethereum
}

// GetClientID returns the ID of the client that committed a misbehaviour.
func (misbehaviour Misbehaviour) GetClientID() string {
	return misbehaviour.ClientID
}

// GetHeight returns the height of Header1, the higher of the two headers. It returns a zero
// height when Header1 is nil.
func (misbehaviour Misbehaviour) GetHeight() exported.Height {
	if misbehaviour.Header1 == nil {
		return clienttypes.ZeroHeight()
	}
	return misbehaviour.Header1.GetHeight()
}

// ValidateBasic checks both headers and requires Header1 to be at least as high as Header2.
func (misbehaviour Misbehaviour) ValidateBasic() error {
	if misbehaviour.Header1 == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "misbehaviour Header1 cannot be nil")
	}
	if misbehaviour.Header2 == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "misbehaviour Header2 cannot be nil")
	}
	if err := host.ClientIdentifierValidator(misbehaviour.ClientID); err != nil {
		return sdkerrors.Wrap(err, "misbehaviour client ID is invalid")
	}
	if err := misbehaviour.Header1.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, sdkerrors.Wrap(err, "header 1 failed validation").Error())
	}
	if err := misbehaviour.Header2.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, sdkerrors.Wrap(err, "header 2 failed validation").Error())
	}
	if misbehaviour.Header1.FinalizedHeader.Slot < misbehaviour.Header2.FinalizedHeader.Slot {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidMisbehaviour, "Header1 slot is less than Header2 slot (%d < %d)",
			misbehaviour.Header1.FinalizedHeader.Slot, misbehaviour.Header2.FinalizedHeader.Slot)
	}
	return nil
}
