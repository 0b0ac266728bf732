package types

import (
	"context"
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
)

// MaxAllowedRelayersLength is the maximum length of the allowed relayers list of a client.
const MaxAllowedRelayersLength = 20

// ValidateRelayers checks the allowed relayers list of a client. An empty list is permissionless.
func ValidateRelayers(allowedRelayers []string) error {
	if len(allowedRelayers) > MaxAllowedRelayersLength {
		return sdkerrors.Wrapf(ErrInvalidClient, "allowed relayers length must not exceed %d items", MaxAllowedRelayersLength)
	}

	for _, r := range allowedRelayers {
		if strings.TrimSpace(r) == "" {
			return sdkerrors.Wrap(ErrInvalidClient, "allowed relayer address cannot be blank")
		}
	}
	return nil
}

// IsAllowedRelayer checks if relayer is registered on the allowlist.
func IsAllowedRelayer(allowedRelayers []string, relayer string) bool {
	if len(allowedRelayers) == 0 {
		return true
	}
	for _, r := range allowedRelayers {
		if r == relayer {
			return true
		}
	}
	return false
}

// AuthorizeRelayer checks the signer carried by ctx against the allowlist. A non-empty list
// requires a signer.
func AuthorizeRelayer(ctx context.Context, allowedRelayers []string) error {
	if len(allowedRelayers) == 0 {
		return nil
	}

	signer, ok := SignerFromContext(ctx)
	if !ok {
		return sdkerrors.Wrap(ibcerrors.ErrUnauthorized, "client restricted to allowed relayers, no signer provided")
	}
	if !IsAllowedRelayer(allowedRelayers, signer) {
		return sdkerrors.Wrapf(ibcerrors.ErrUnauthorized, "relayer %s is not allowed to create this client", signer)
	}
	return nil
}
