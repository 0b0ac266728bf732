package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// SubModuleName defines the IBC client name
const SubModuleName = "client"

// IBC client sentinel errors
var (
	ErrClientExists                          = sdkerrors.Register(SubModuleName, 2, "light client already exists")
	ErrInvalidClient                         = sdkerrors.Register(SubModuleName, 3, "light client is invalid")
	ErrClientNotFound                        = sdkerrors.Register(SubModuleName, 4, "light client not found")
	ErrClientFrozen                          = sdkerrors.Register(SubModuleName, 5, "light client is frozen due to misbehaviour")
	ErrInvalidClientMetadata                 = sdkerrors.Register(SubModuleName, 6, "invalid client metadata")
	ErrConsensusStateNotFound                = sdkerrors.Register(SubModuleName, 7, "consensus state not found")
	ErrInvalidConsensus                      = sdkerrors.Register(SubModuleName, 8, "invalid consensus state")
	ErrClientTypeNotFound                    = sdkerrors.Register(SubModuleName, 9, "client type not found")
	ErrInvalidClientType                     = sdkerrors.Register(SubModuleName, 10, "invalid client type")
	ErrRootNotFound                          = sdkerrors.Register(SubModuleName, 11, "commitment root not found")
	ErrInvalidHeader                         = sdkerrors.Register(SubModuleName, 12, "invalid client header")
	ErrInvalidMisbehaviour                   = sdkerrors.Register(SubModuleName, 13, "invalid light client misbehaviour")
	ErrInvalidUpgradeClient                  = sdkerrors.Register(SubModuleName, 14, "invalid client upgrade")
	ErrClientNotActive                       = sdkerrors.Register(SubModuleName, 15, "client state is not active")
	ErrRouteNotFound                         = sdkerrors.Register(SubModuleName, 16, "light client module route not found")
	ErrProcessedTimeNotFound                 = sdkerrors.Register(SubModuleName, 17, "processed time not found")
	ErrProcessedHeightNotFound               = sdkerrors.Register(SubModuleName, 18, "processed height not found")
	ErrDelayPeriodNotPassed                  = sdkerrors.Register(SubModuleName, 19, "packet-specified delay period has not been reached")
	ErrSignedHeaderHeightMustBeMoreRecent    = sdkerrors.Register(SubModuleName, 20, "header height must be greater than the trusted height")
	ErrSignedHeaderTimestampMustBeMoreRecent = sdkerrors.Register(SubModuleName, 21, "header timestamp must be greater than the trusted timestamp")
	ErrSignedHeaderCannotExceedMaxClockDrift = sdkerrors.Register(SubModuleName, 22, "header timestamp is beyond the max clock drift")
	ErrRevisionNumberMismatch                = sdkerrors.Register(SubModuleName, 23, "header revision number does not match trusted revision number")
	ErrTrustingPeriodExpired                 = sdkerrors.Register(SubModuleName, 24, "trusted consensus state is outside the trusting period")
	ErrTrustedValidatorsMismatch             = sdkerrors.Register(SubModuleName, 25, "trusted validators do not match the trusted consensus state")
	ErrVerificationFailed                    = sdkerrors.Register(SubModuleName, 26, "header failed cryptographic verification")
	ErrInvalidClientIdentifier               = sdkerrors.Register(SubModuleName, 27, "invalid client identifier")
)
