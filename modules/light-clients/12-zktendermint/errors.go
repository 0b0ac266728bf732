package zktendermint

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// ModuleName is the codespace of the zk tendermint light client errors.
const ModuleName = exported.ZKTendermint

var (
	ErrInvalidChainID         = sdkerrors.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod  = sdkerrors.Register(ModuleName, 3, "invalid trusting period")
	ErrInvalidUnbondingPeriod = sdkerrors.Register(ModuleName, 4, "invalid unbonding period")
	ErrInvalidHeaderHeight    = sdkerrors.Register(ModuleName, 5, "invalid header height")
	ErrInvalidHeader          = sdkerrors.Register(ModuleName, 6, "invalid header")
	ErrInvalidMaxClockDrift   = sdkerrors.Register(ModuleName, 7, "invalid max clock drift")
	ErrInvalidProofSpecs      = sdkerrors.Register(ModuleName, 8, "invalid proof specs")
	ErrInvalidVerifyingKey    = sdkerrors.Register(ModuleName, 9, "invalid groth16 verifying key")
	ErrInvalidZKP             = sdkerrors.Register(ModuleName, 10, "invalid zero knowledge proof")
)
