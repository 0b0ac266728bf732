package tendermint

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var (
	_ exported.LightClientModule    = (*LightClientModule)(nil)
	_ exported.MisbehaviourVerifier = (*LightClientModule)(nil)
	_ exported.UpgradeVerifier      = (*LightClientModule)(nil)

	_ exported.ConsensusStateQuerier = (*LightClientModule)(nil)
)

// LightClientModule implements the core IBC api.LightClientModule interface.
type LightClientModule struct {
	storeProvider clienttypes.StoreProvider
	clock         exported.Clock
}

// NewLightClientModule creates and returns a new 07-tendermint LightClientModule.
func NewLightClientModule(storeProvider clienttypes.StoreProvider, clock exported.Clock) LightClientModule {
	return LightClientModule{
		storeProvider: storeProvider,
		clock:         clock,
	}
}

// Initialize checks that the provided client and consensus states are tendermint states and performs basic validation.
// It calls into the clientState.initialize method.
func (l LightClientModule) Initialize(ctx context.Context, clientID string, clientState exported.ClientState, consensusState exported.ConsensusState) error {
	tmClientState, ok := clientState.(*ClientState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "expected type %T, got %T", &ClientState{}, clientState)
	}

	if err := tmClientState.Validate(); err != nil {
		return err
	}

	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	clientStore := l.storeProvider.ClientStore(clientID)

	return tmClientState.initialize(clientStore, l.clock, consensusState)
}

// VerifyClientMessage obtains the client state associated with the client identifier and calls into the clientState.VerifyClientMessage method.
func (l LightClientModule) VerifyClientMessage(ctx context.Context, clientID string, clientMsg exported.ClientMessage) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.VerifyClientMessage(clientStore, l.clock.Now(), clientMsg)
}

// VerifyMisbehaviour obtains the client state associated with the client identifier and verifies that both headers
// of the misbehaviour would have been accepted by the client.
func (l LightClientModule) VerifyMisbehaviour(ctx context.Context, clientID string, misbehaviour exported.Misbehaviour) error {
	tmMisbehaviour, ok := misbehaviour.(*Misbehaviour)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidMisbehaviour, "expected type %T, got %T", &Misbehaviour{}, misbehaviour)
	}

	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.verifyMisbehaviour(clientStore, l.clock.Now(), tmMisbehaviour)
}

// CheckForMisbehaviour obtains the client state associated with the client identifier and calls into the clientState.CheckForMisbehaviour method.
func (l LightClientModule) CheckForMisbehaviour(ctx context.Context, clientID string, clientMsg exported.ClientMessage) bool {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.CheckForMisbehaviour(clientStore, clientMsg)
}

// UpdateStateOnMisbehaviour obtains the client state associated with the client identifier and calls into the clientState.UpdateStateOnMisbehaviour method.
func (l LightClientModule) UpdateStateOnMisbehaviour(ctx context.Context, clientID string, clientMsg exported.ClientMessage) {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	clientState.UpdateStateOnMisbehaviour(clientStore, clientMsg)
}

// UpdateState obtains the client state associated with the client identifier and calls into the clientState.UpdateState method.
func (l LightClientModule) UpdateState(ctx context.Context, clientID string, clientMsg exported.ClientMessage) []exported.Height {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		panic(sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.UpdateState(clientStore, l.clock, clientMsg)
}

// VerifyMembership obtains the client state associated with the client identifier and calls into the clientState.verifyMembership method.
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

// VerifyNonMembership obtains the client state associated with the client identifier and calls into the clientState.verifyNonMembership method.
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

// Status obtains the client state associated with the client identifier and calls into the clientState.status method.
func (l LightClientModule) Status(ctx context.Context, clientID string) exported.Status {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return exported.Unknown
	}

	return clientState.status(clientStore, l.clock.Now())
}

// LatestHeight returns the latest height for the client state for the given client identifier.
// If no client is present for the provided client identifier a zero value height is returned.
func (l LightClientModule) LatestHeight(ctx context.Context, clientID string) exported.Height {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return clienttypes.ZeroHeight()
	}

	return clientState.LatestHeight
}

// TimestampAtHeight obtains the client state associated with the client identifier and calls into the clientState.getTimestampAtHeight method.
func (l LightClientModule) TimestampAtHeight(
	ctx context.Context,
	clientID string,
	height exported.Height,
) (uint64, error) {
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

// VerifyUpgradeAndUpdateState obtains the client state associated with the client identifier and calls into the clientState.VerifyUpgradeAndUpdateState method.
// An error is returned if the new client state is not at a height greater than the existing client.
func (l LightClientModule) VerifyUpgradeAndUpdateState(
	ctx context.Context,
	clientID string,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	upgradeClientProof,
	upgradeConsensusStateProof []byte,
) error {
	newClientState, ok := newClient.(*ClientState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "expected type %T, got %T", &ClientState{}, newClient)
	}

	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	// last height of current counterparty chain must be client's latest height
	lastHeight := clientState.LatestHeight
	if !newClientState.LatestHeight.GT(lastHeight) {
		return sdkerrors.Wrapf(ibcerrors.ErrInvalidHeight, "upgraded client height %s must be at greater than current client height %s", newClientState.LatestHeight, lastHeight)
	}

	return clientState.VerifyUpgradeAndUpdateState(clientStore, l.clock, newClientState, newConsState, upgradeClientProof, upgradeConsensusStateProof)
}
