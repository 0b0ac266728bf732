package ethereum

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// ModuleName is the codespace of the ethereum light client errors.
const ModuleName = exported.Ethereum

var (
	ErrInvalidGenesisValidatorsRoot = sdkerrors.Register(ModuleName, 2, "invalid genesis validators root")
	ErrInvalidForkParameters        = sdkerrors.Register(ModuleName, 3, "invalid fork parameters")
	ErrInvalidChainSpec             = sdkerrors.Register(ModuleName, 4, "invalid beacon chain spec")
	ErrInvalidTrustingPeriod        = sdkerrors.Register(ModuleName, 5, "invalid trusting period")
	ErrInvalidMaxClockDrift         = sdkerrors.Register(ModuleName, 6, "invalid max clock drift")
	ErrInvalidHeaderHeight          = sdkerrors.Register(ModuleName, 7, "invalid header height")
	ErrInvalidHeader                = sdkerrors.Register(ModuleName, 8, "invalid header")
	ErrInvalidSyncCommittee         = sdkerrors.Register(ModuleName, 9, "invalid sync committee")
	ErrInvalidSyncCommitteePeriod   = sdkerrors.Register(ModuleName, 10, "invalid sync committee period")
	ErrInvalidUpdateProof           = sdkerrors.Register(ModuleName, 11, "light client update failed verification")
	ErrInvalidIBCContract           = sdkerrors.Register(ModuleName, 12, "invalid ibc contract")
)
