package keeper

import (
	"context"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ibcmetrics "github.com/ComposableFi/light-clients/modules/core/metrics"
)

// CreateClient generates a new client identifier and isolated prefix store for the provided client state.
// The client state is responsible for setting any client-specific data in the store via the Initialize method.
// This includes the client state, initial consensus state and any associated metadata. Initialize
// rejects clients which would not be active before writing, so a failed creation leaves no state
// behind and does not consume the client sequence.
func (k *Keeper) CreateClient(ctx context.Context, clientState exported.ClientState, consensusState exported.ConsensusState) (string, error) {
	clientType := clientState.ClientType()
	if !k.params.IsAllowedClient(clientType) {
		return "", sdkerrors.Wrapf(
			types.ErrInvalidClientType,
			"client state type %s is not registered in the allowlist", clientType,
		)
	}

	if consensusState.ClientType() != clientType {
		return "", sdkerrors.Wrapf(
			types.ErrInvalidConsensus,
			"consensus state type %s does not match client state type %s", consensusState.ClientType(), clientType,
		)
	}

	lightClientModule, found := k.router.GetRoute(clientType)
	if !found {
		return "", sdkerrors.Wrap(types.ErrRouteNotFound, clientType)
	}

	// the sequence is only consumed once the client is stored
	k.seqMtx.Lock()
	defer k.seqMtx.Unlock()

	sequence := k.GetNextClientSequence()
	clientID := types.FormatClientIdentifier(clientType, sequence)

	lock := k.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	if err := lightClientModule.Initialize(ctx, clientID, clientState, consensusState); err != nil {
		return "", err
	}
	k.setNextClientSequence(sequence + 1)

	k.Logger().Info("client created at height", "client-id", clientID, "height", lightClientModule.LatestHeight(ctx, clientID).String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "create"},
		1,
		[]metrics.Label{telemetry.NewLabel(ibcmetrics.LabelClientType, clientType)},
	)

	return clientID, nil
}

// UpdateClient verifies the client message and either freezes the client, when the message
// proves misbehaviour, or stores the consensus state it carries.
func (k *Keeper) UpdateClient(ctx context.Context, clientID string, clientMsg exported.ClientMessage) error {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	lock := k.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	if status := lightClientModule.Status(ctx, clientID); status != exported.Active {
		return sdkerrors.Wrapf(types.ErrClientNotActive, "cannot update client (%s) with status %s", clientID, status)
	}

	clientType := clientMsg.ClientType()
	if err := verifyClientMessage(ctx, lightClientModule, clientID, clientMsg); err != nil {
		return err
	}

	if lightClientModule.CheckForMisbehaviour(ctx, clientID, clientMsg) {
		lightClientModule.UpdateStateOnMisbehaviour(ctx, clientID, clientMsg)

		k.Logger().Info("client frozen due to misbehaviour", "client-id", clientID)

		defer telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "misbehaviour"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(ibcmetrics.LabelClientType, clientType),
				telemetry.NewLabel(ibcmetrics.LabelClientID, clientID),
				telemetry.NewLabel(ibcmetrics.LabelMsgType, "update"),
			},
		)

		return nil
	}

	consensusHeights := lightClientModule.UpdateState(ctx, clientID, clientMsg)

	k.Logger().Info("client state updated", "client-id", clientID, "heights", consensusHeights)

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "update"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(ibcmetrics.LabelClientType, clientType),
			telemetry.NewLabel(ibcmetrics.LabelClientID, clientID),
			telemetry.NewLabel(ibcmetrics.LabelUpdateType, "msg"),
		},
	)

	return nil
}

// SubmitMisbehaviour verifies two conflicting headers and freezes the client. Light client
// modules which do not accept explicit evidence return ErrUnimplemented.
func (k *Keeper) SubmitMisbehaviour(ctx context.Context, clientID string, misbehaviour exported.Misbehaviour) error {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	verifier, ok := lightClientModule.(exported.MisbehaviourVerifier)
	if !ok {
		return sdkerrors.Wrapf(ibcerrors.ErrUnimplemented, "client type %s does not accept misbehaviour evidence", misbehaviour.ClientType())
	}

	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	if misbehaviour.GetClientID() != clientID {
		return sdkerrors.Wrapf(types.ErrInvalidMisbehaviour, "misbehaviour client id %s does not match %s", misbehaviour.GetClientID(), clientID)
	}

	lock := k.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	if status := lightClientModule.Status(ctx, clientID); status != exported.Active {
		return sdkerrors.Wrapf(types.ErrClientNotActive, "cannot process misbehaviour for client (%s) with status %s", clientID, status)
	}

	defer telemetry.MeasureSince(time.Now(), "ibc", "client", "verify_misbehaviour")

	if err := verifier.VerifyMisbehaviour(ctx, clientID, misbehaviour); err != nil {
		return err
	}

	if !lightClientModule.CheckForMisbehaviour(ctx, clientID, misbehaviour) {
		return sdkerrors.Wrapf(types.ErrInvalidMisbehaviour, "headers submitted for client %s do not conflict", clientID)
	}

	lightClientModule.UpdateStateOnMisbehaviour(ctx, clientID, misbehaviour)

	k.Logger().Info("client frozen due to misbehaviour", "client-id", clientID)

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "misbehaviour"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(ibcmetrics.LabelClientType, misbehaviour.ClientType()),
			telemetry.NewLabel(ibcmetrics.LabelClientID, clientID),
			telemetry.NewLabel(ibcmetrics.LabelMsgType, "submit"),
		},
	)

	return nil
}

// UpgradeClient upgrades the client to a new client state if this new client was committed to
// by the old client at the specified upgrade height
func (k *Keeper) UpgradeClient(
	ctx context.Context, clientID string, upgradedClient exported.ClientState, upgradedConsState exported.ConsensusState,
	upgradeClientProof, upgradeConsensusStateProof []byte,
) error {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	upgrader, ok := lightClientModule.(exported.UpgradeVerifier)
	if !ok {
		return sdkerrors.Wrapf(ibcerrors.ErrUnimplemented, "client %s cannot be upgraded", clientID)
	}

	lock := k.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	if status := lightClientModule.Status(ctx, clientID); status != exported.Active {
		return sdkerrors.Wrapf(types.ErrClientNotActive, "cannot upgrade client (%s) with status %s", clientID, status)
	}

	if err := upgrader.VerifyUpgradeAndUpdateState(ctx, clientID, upgradedClient, upgradedConsState,
		upgradeClientProof, upgradeConsensusStateProof,
	); err != nil {
		return sdkerrors.Wrapf(err, "cannot upgrade client with ID %s", clientID)
	}

	k.Logger().Info("client state upgraded", "client-id", clientID, "height", upgradedClient.GetLatestHeight().String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "upgrade"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(ibcmetrics.LabelClientType, upgradedClient.ClientType()),
			telemetry.NewLabel(ibcmetrics.LabelClientID, clientID),
		},
	)

	return nil
}

// verifyClientMessage runs the module verification of the message, timing it. Misbehaviour
// evidence is rejected by modules which do not accept it.
func verifyClientMessage(ctx context.Context, lightClientModule exported.LightClientModule, clientID string, clientMsg exported.ClientMessage) error {
	if clientType, _, _ := types.ParseClientIdentifier(clientID); clientMsg.ClientType() != clientType {
		return sdkerrors.Wrapf(types.ErrInvalidClientType, "cannot update client %s with a %s client message", clientID, clientMsg.ClientType())
	}

	if err := clientMsg.ValidateBasic(); err != nil {
		return err
	}

	if _, isMisbehaviour := clientMsg.(exported.Misbehaviour); isMisbehaviour {
		if _, ok := lightClientModule.(exported.MisbehaviourVerifier); !ok {
			return sdkerrors.Wrapf(ibcerrors.ErrUnimplemented, "client type %s does not accept misbehaviour evidence", clientMsg.ClientType())
		}
	}

	defer telemetry.MeasureSince(time.Now(), "ibc", "client", "verify_client_message")

	return lightClientModule.VerifyClientMessage(ctx, clientID, clientMsg)
}
