package arbitrum

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// ModuleName is the codespace of the arbitrum light client errors.
const ModuleName = exported.Arbitrum

var (
	ErrInvalidL1Client       = sdkerrors.Register(ModuleName, 2, "invalid parent chain client")
	ErrInvalidRollup         = sdkerrors.Register(ModuleName, 3, "invalid rollup contract")
	ErrInvalidTrustingPeriod = sdkerrors.Register(ModuleName, 4, "invalid trusting period")
	ErrInvalidMaxClockDrift  = sdkerrors.Register(ModuleName, 5, "invalid max clock drift")
	ErrInvalidHeaderHeight   = sdkerrors.Register(ModuleName, 6, "invalid header height")
	ErrInvalidHeader         = sdkerrors.Register(ModuleName, 7, "invalid header")
	ErrNodeNotConfirmed      = sdkerrors.Register(ModuleName, 8, "rollup node not confirmed")
	ErrInvalidUpdateProof    = sdkerrors.Register(ModuleName, 9, "rollup proof failed verification")
	ErrInvalidIBCContract    = sdkerrors.Register(ModuleName, 10, "invalid ibc contract")
)
