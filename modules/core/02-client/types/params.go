package types

import (
	"fmt"
	"strings"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// DefaultAllowedClients are the default clients for the AllowedClients parameter.
var DefaultAllowedClients = []string{exported.Tendermint, exported.ZKTendermint, exported.Ethereum, exported.Arbitrum}

// DefaultMaxConcurrentVerifications bounds the number of client updates verified in parallel
// by a batch update.
const DefaultMaxConcurrentVerifications = 8

// Params defines the set of light client parameters.
type Params struct {
	// AllowedClients defines the list of allowed client state types which can be created.
	AllowedClients []string `mapstructure:"allowed_clients"`
	// MaxConcurrentVerifications bounds the worker pool used for batch updates.
	MaxConcurrentVerifications int `mapstructure:"max_concurrent_verifications"`
}

// NewParams creates a new parameter configuration for the ibc client module
func NewParams(maxConcurrentVerifications int, allowedClients ...string) Params {
	return Params{
		AllowedClients:             allowedClients,
		MaxConcurrentVerifications: maxConcurrentVerifications,
	}
}

// DefaultParams is the default parameter configuration for the ibc-client module.
func DefaultParams() Params {
	return NewParams(DefaultMaxConcurrentVerifications, DefaultAllowedClients...)
}

// Validate all ibc-client module parameters
func (p Params) Validate() error {
	if p.MaxConcurrentVerifications <= 0 {
		return fmt.Errorf("max concurrent verifications must be positive, got %d", p.MaxConcurrentVerifications)
	}
	return validateClients(p.AllowedClients)
}

// IsAllowedClient checks if the given client type is registered on the allowlist.
func (p Params) IsAllowedClient(clientType string) bool {
	for _, allowedClient := range p.AllowedClients {
		if allowedClient == clientType {
			return true
		}
	}
	return false
}

// validateClients checks that the given clients are not blank.
func validateClients(clients []string) error {
	for i, clientType := range clients {
		if strings.TrimSpace(clientType) == "" {
			return fmt.Errorf("client type %d cannot be blank", i)
		}
	}

	return nil
}
