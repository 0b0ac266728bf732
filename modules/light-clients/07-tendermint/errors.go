package tendermint

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// ModuleName is the codespace of the tendermint light client errors.
const ModuleName = exported.Tendermint

// IBC tendermint client sentinel errors
var (
	ErrInvalidChainID         = sdkerrors.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod  = sdkerrors.Register(ModuleName, 3, "invalid trusting period")
	ErrInvalidUnbondingPeriod = sdkerrors.Register(ModuleName, 4, "invalid unbonding period")
	ErrInvalidHeaderHeight    = sdkerrors.Register(ModuleName, 5, "invalid header height")
	ErrInvalidHeader          = sdkerrors.Register(ModuleName, 6, "invalid header")
	ErrInvalidMaxClockDrift   = sdkerrors.Register(ModuleName, 7, "invalid max clock drift")
	ErrInvalidTrustLevel      = sdkerrors.Register(ModuleName, 8, "invalid trust level")
	ErrInvalidProofSpecs      = sdkerrors.Register(ModuleName, 9, "invalid proof specs")
	ErrInvalidValidatorSet    = sdkerrors.Register(ModuleName, 10, "invalid validator set")
)
