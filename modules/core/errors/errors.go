package errors

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

const codespace = exported.ModuleName

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = sdkerrors.Register(codespace, 2, "unauthorized")

	// ErrInvalidRequest defines an error where the request contains invalid data.
	ErrInvalidRequest = sdkerrors.Register(codespace, 3, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = sdkerrors.Register(codespace, 4, "invalid height")

	// ErrInvalidChainID defines an error when the chain-id is invalid.
	ErrInvalidChainID = sdkerrors.Register(codespace, 5, "invalid chain-id")

	// ErrInvalidType defines an error an invalid type.
	ErrInvalidType = sdkerrors.Register(codespace, 6, "invalid type")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = sdkerrors.Register(codespace, 7, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = sdkerrors.Register(codespace, 8, "not found")

	// ErrUnimplemented is returned by light client families that intentionally do not support an operation.
	ErrUnimplemented = sdkerrors.Register(codespace, 9, "operation not supported by light client")
)
