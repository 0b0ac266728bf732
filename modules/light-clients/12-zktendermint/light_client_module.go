package zktendermint

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var (
	_ exported.LightClientModule     = (*LightClientModule)(nil)
	_ exported.MisbehaviourVerifier  = (*LightClientModule)(nil)
	_ exported.ConsensusStateQuerier = (*LightClientModule)(nil)
)

// LightClientModule is the 12-zktendermint light client module.
type LightClientModule struct {
	storeProvider clienttypes.StoreProvider
	clock         exported.Clock
}

// NewLightClientModule creates and returns a new 12-zktendermint LightClientModule.
func NewLightClientModule(storeProvider clienttypes.StoreProvider, clock exported.Clock) LightClientModule {
	return LightClientModule{
		storeProvider: storeProvider,
		clock:         clock,
	}
}

// Initialize validates the client and consensus states, including the verifying key, and
// stores them.
func (l LightClientModule) Initialize(ctx context.Context, clientID string, clientState exported.ClientState, consensusState exported.ConsensusState) error {
	zkClientState, ok := clientState.(*ClientState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "expected type %T, got %T", &ClientState{}, clientState)
	}

	if err := zkClientState.Validate(); err != nil {
		return err
	}

	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	return zkClientState.initialize(l.storeProvider.ClientStore(clientID), l.clock, consensusState)
}

// VerifyClientMessage verifies a header or misbehaviour against the stored client.
func (l LightClientModule) VerifyClientMessage(ctx context.Context, clientID string, clientMsg exported.ClientMessage) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.VerifyClientMessage(clientStore, l.clock.Now(), clientMsg)
}

// VerifyMisbehaviour verifies that both headers of the evidence would have been accepted.
func (l LightClientModule) VerifyMisbehaviour(ctx context.Context, clientID string, misbehaviour exported.Misbehaviour) error {
	zkMisbehaviour, ok := misbehaviour.(*Misbehaviour)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidMisbehaviour, "expected type %T, got %T", &Misbehaviour{}, misbehaviour)
	}

	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	return clientState.verifyMisbehaviour(clientStore, l.clock.Now(), zkMisbehaviour)
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

// VerifyMembership verifies an ICS23 membership proof against the app hash at height.
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

// VerifyNonMembership verifies an ICS23 non-membership proof against the app hash at height.
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
