package arbitrum

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var (
	_ exported.LightClientModule     = (*LightClientModule)(nil)
	_ exported.ConsensusStateQuerier = (*LightClientModule)(nil)
)

// LightClientModule is the 15-arbitrum light client module. It reads the state roots of the
// parent chain clients through reader.
type LightClientModule struct {
	storeProvider clienttypes.StoreProvider
	clock         exported.Clock
	reader        exported.ConsensusStateReader
}

// NewLightClientModule creates and returns a new 15-arbitrum LightClientModule.
func NewLightClientModule(storeProvider clienttypes.StoreProvider, clock exported.Clock, reader exported.ConsensusStateReader) LightClientModule {
	return LightClientModule{
		storeProvider: storeProvider,
		clock:         clock,
		reader:        reader,
	}
}

// Initialize validates the client and consensus states and stores them. Clients with allowed
// relayers may only be created by one of them.
func (l LightClientModule) Initialize(ctx context.Context, clientID string, clientState exported.ClientState, consensusState exported.ConsensusState) error {
	arbClientState, ok := clientState.(*ClientState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "expected type %T, got %T", &ClientState{}, clientState)
	}

	if err := arbClientState.Validate(); err != nil {
		return err
	}

	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	return arbClientState.initialize(ctx, l.storeProvider.ClientStore(clientID), l.clock, consensusState)
}

// VerifyClientMessage verifies a header against the stored client and the parent chain client.
func (l LightClientModule) VerifyClientMessage(ctx context.Context, clientID string, clientMsg exported.ClientMessage) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.VerifyClientMessage(ctx, clientStore, l.clock.Now(), l.reader, clientMsg)
}

// CheckForMisbehaviour checks a verified message for misbehaviour.
func (l LightClientModule) CheckForMisbehaviour(ctx context.Context, clientID string, clientMsg exported.ClientMessage) bool {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.CheckForMisbehaviour(clientStore, clientMsg)
}

// UpdateStateOnMisbehaviour freezes the client.
func (l LightClientModule) UpdateStateOnMisbehaviour(ctx context.Context, clientID string, clientMsg exported.ClientMessage) {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	clientState.UpdateStateOnMisbehaviour(clientStore, clientMsg)
}

// UpdateState stores the consensus state of a verified header.
func (l LightClientModule) UpdateState(ctx context.Context, clientID string, clientMsg exported.ClientMessage) []exported.Height {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.UpdateState(clientStore, l.clock, clientMsg)
}

// VerifyMembership verifies a storage proof of a commitment of the IBC contract against the
// L2 state root at height.
func (l LightClientModule) VerifyMembership(
	ctx context.Context,
	clientID string,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.verifyMembership(clientStore, l.clock, height, delayTimePeriod, delayBlockPeriod, proof, path, value)
}

// VerifyNonMembership verifies a storage proof of an empty commitment slot of the IBC contract
// against the L2 state root at height.
func (l LightClientModule) VerifyNonMembership(
	ctx context.Context,
	clientID string,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.verifyNonMembership(clientStore, l.clock, height, delayTimePeriod, delayBlockPeriod, proof, path)
}

// Status returns the status of the client, Unknown if it does not exist.
func (l LightClientModule) Status(ctx context.Context, clientID string) exported.Status {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return exported.Unknown
	}

	return clientState.status(clientStore, l.clock.Now())
}

// LatestHeight returns the latest height of the client, zero if it does not exist.
func (l LightClientModule) LatestHeight(ctx context.Context, clientID string) exported.Height {
	clientState, found := getClientState(l.storeProvider.ClientStore(clientID))
	if !found {
		return clienttypes.ZeroHeight()
	}

	return clientState.LatestHeight
}

// TimestampAtHeight returns the timestamp of the consensus state at height.
func (l LightClientModule) TimestampAtHeight(ctx context.Context, clientID string, height exported.Height) (uint64, error) {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return 0, sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.getTimestampAtHeight(clientStore, height)
}

// ConsensusState returns the consensus state stored for the client at height.
func (l LightClientModule) ConsensusState(ctx context.Context, clientID string, height exported.Height) (exported.ConsensusState, bool) {
	consState, found := GetConsensusState(l.storeProvider.ClientStore(clientID), height)
	if !found {
		return nil, false
	}
	return consState, true
}
