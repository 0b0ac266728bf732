package keeper

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ConsensusStateReader = (*Keeper)(nil)

// GetClientStatus returns the status for a client state given a client identifier. If the client
// identifier cannot be routed, Unknown is returned.
func (k *Keeper) GetClientStatus(ctx context.Context, clientID string) exported.Status {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return exported.Unknown
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	return lightClientModule.Status(ctx, clientID)
}

// GetLatestHeight returns the latest height of a client state for a given client identifier. If the
// client identifier cannot be routed, a zero value height is returned.
func (k *Keeper) GetLatestHeight(ctx context.Context, clientID string) types.Height {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return types.ZeroHeight()
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	return types.MustHeight(lightClientModule.LatestHeight(ctx, clientID))
}

// GetClientTimestampAtHeight returns the timestamp in nanoseconds of the consensus state at the given height.
func (k *Keeper) GetClientTimestampAtHeight(ctx context.Context, clientID string, height exported.Height) (uint64, error) {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return 0, err
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	return lightClientModule.TimestampAtHeight(ctx, clientID, height)
}

// GetClientConsensusState returns the consensus state stored for the client at height.
func (k *Keeper) GetClientConsensusState(ctx context.Context, clientID string, height exported.Height) (exported.ConsensusState, bool) {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return nil, false
	}

	querier, ok := lightClientModule.(exported.ConsensusStateQuerier)
	if !ok {
		return nil, false
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	return querier.ConsensusState(ctx, clientID, height)
}

// ConsensusStateRoot returns the commitment root of the consensus state of an active client at
// height. Settlement clients read the state root of their parent chain client through it.
func (k *Keeper) ConsensusStateRoot(ctx context.Context, clientID string, height exported.Height) ([]byte, error) {
	if status := k.GetClientStatus(ctx, clientID); status != exported.Active {
		return nil, sdkerrors.Wrapf(types.ErrClientNotActive, "client (%s) has status %s", clientID, status)
	}

	consensusState, found := k.GetClientConsensusState(ctx, clientID, height)
	if !found {
		return nil, sdkerrors.Wrapf(types.ErrConsensusStateNotFound, "client (%s) at height %s", clientID, height)
	}

	root := consensusState.GetRoot()
	if len(root) == 0 {
		return nil, sdkerrors.Wrapf(types.ErrRootNotFound, "client (%s) at height %s", clientID, height)
	}
	return root, nil
}

// VerifyMembership verifies a proof of the existence of value at path in the state of the
// counterparty at height. The client must be active.
func (k *Keeper) VerifyMembership(
	ctx context.Context, clientID string, height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte, path exported.Path, value []byte,
) error {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	if status := lightClientModule.Status(ctx, clientID); status != exported.Active {
		return sdkerrors.Wrapf(types.ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}

	return lightClientModule.VerifyMembership(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof, path, value)
}

// VerifyNonMembership verifies a proof of the absence of path in the state of the counterparty
// at height. The client must be active.
func (k *Keeper) VerifyNonMembership(
	ctx context.Context, clientID string, height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte, path exported.Path,
) error {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	lock := k.clientLock(clientID)
	lock.RLock()
	defer lock.RUnlock()

	if status := lightClientModule.Status(ctx, clientID); status != exported.Active {
		return sdkerrors.Wrapf(types.ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}

	return lightClientModule.VerifyNonMembership(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof, path)
}
