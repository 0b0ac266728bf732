package keeper

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// ClientUpdate pairs a client identifier with a message updating it.
type ClientUpdate struct {
	ClientID string
	Message  exported.ClientMessage
}

// UpdateClients applies the updates with at most MaxConcurrentVerifications of them in flight.
// Updates of distinct clients are verified in parallel, updates of the same client run one at
// a time in an unspecified order. The returned slice holds the result of each update at the
// index of the update.
func (k *Keeper) UpdateClients(ctx context.Context, updates []ClientUpdate) []error {
	errs := make([]error, len(updates))

	var g errgroup.Group
	g.SetLimit(k.params.MaxConcurrentVerifications)

	for i, update := range updates {
		i, update := i, update
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = k.UpdateClient(ctx, update.ClientID, update.Message)
			return nil
		})
	}

	// results are collected per update
	_ = g.Wait()
	return errs
}
