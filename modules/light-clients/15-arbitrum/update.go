package arbitrum

import (
	"context"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// VerifyClientMessage verifies a Header. The client does not accept misbehaviour evidence.
func (cs *ClientState) VerifyClientMessage(
	ctx context.Context, clientStore storetypes.KVStore, now time.Time, reader exported.ConsensusStateReader, clientMsg exported.ClientMessage,
) error {
	header, ok := clientMsg.(*Header)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T, got %T", &Header{}, clientMsg)
	}

	_, err := cs.VerifyHeader(ctx, clientStore, now, reader, header)
	return err
}

// VerifyHeader checks the header preconditions against the trusted consensus state and then
// proves against the parent chain that the rollup confirmed the L2 block. On success the
// consensus state of the block is returned, together with the client state advanced to it
// when it is newer than the latest height.
func (cs *ClientState) VerifyHeader(
	ctx context.Context, clientStore storetypes.KVStore, now time.Time, reader exported.ConsensusStateReader, header *Header,
) (clienttypes.StateUpdate, error) {
	if !cs.FrozenHeight.IsZero() {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	height := header.GetHeight()
	preconditions := clienttypes.HeaderPreconditions{
		TrustedHeight:  header.TrustedHeight,
		Height:         height,
		Timestamp:      header.GetTime(),
		TrustingPeriod: cs.TrustingPeriod.Std(),
		MaxClockDrift:  cs.MaxClockDrift.Std(),
	}
	if trusted, found := GetConsensusState(clientStore, header.TrustedHeight); found {
		preconditions.TrustedState = trusted
	}
	if err := preconditions.Check(now); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	l1Root, err := reader.ConsensusStateRoot(ctx, cs.L1ClientID, header.L1Height)
	if err != nil {
		return clienttypes.StateUpdate{}, sdkerrors.Wrapf(err, "parent chain client %s", cs.L1ClientID)
	}

	if err := cs.verifyConfirmation(common.BytesToHash(l1Root), header); err != nil {
		return clienttypes.StateUpdate{}, err
	}

	update := clienttypes.StateUpdate{
		ConsensusState: consensusStateFromHeader(header),
	}
	if height.GT(cs.LatestHeight) {
		newClientState := *cs
		newClientState.LatestHeight = clienttypes.MustHeight(height)
		update.ClientState = &newClientState
	}
	return update, nil
}

// verifyConfirmation chains the rollup proofs from the parent chain state root: the account
// proof yields the rollup storage root, under which the latest confirmed node must not be lower
// than the node of the header, and the confirm data of that node must commit to the block.
func (cs ClientState) verifyConfirmation(l1Root common.Hash, header *Header) error {
	storageRoot, err := mpt.AccountStorageRoot(l1Root, cs.rollupAddress(), header.AccountProof)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidUpdateProof, "rollup account: %v", err)
	}

	word, err := mpt.StorageValue(storageRoot, common.BytesToHash(cs.LatestConfirmedSlot), header.LatestConfirmedProof)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidUpdateProof, "latest confirmed node: %v", err)
	}
	if confirmed := latestConfirmed(word); confirmed.Lt(uint256.NewInt(header.NodeNumber)) {
		return sdkerrors.Wrapf(ErrNodeNotConfirmed, "node %d is above the latest confirmed node %s", header.NodeNumber, confirmed.Dec())
	}

	slot := NodeConfirmDataSlot(common.BytesToHash(cs.NodesSlot), cs.ConfirmDataOffset, header.NodeNumber)
	if err := mpt.VerifyStorageProof(storageRoot, slot, ConfirmData(header.BlockHash(), header.SendRoot()), header.ConfirmDataProof); err != nil {
		return sdkerrors.Wrapf(ErrInvalidUpdateProof, "confirm data of node %d: %v", header.NodeNumber, err)
	}
	return nil
}

func consensusStateFromHeader(header *Header) *ConsensusState {
	blockHash := header.BlockHash()
	return &ConsensusState{
		Timestamp: clienttypes.TimeToTimestamp(header.GetTime()),
		StateRoot: header.L2Header.Root.Bytes(),
		BlockHash: blockHash.Bytes(),
	}
}

// UpdateState stores the consensus state of a verified header and advances the latest height.
// A header whose block is already stored is a no-op. Up to DefaultPruneLimit expired consensus
// states are pruned before the new one is written.
func (cs ClientState) UpdateState(clientStore storetypes.KVStore, clock exported.Clock, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}

	height := clienttypes.MustHeight(header.GetHeight())
	if clienttypes.HasConsensusState(clientStore, height) {
		return []exported.Height{height}
	}

	clienttypes.PruneExpiredConsensusStates(clientStore, cs.LatestHeight, cs.TrustingPeriod.Std(), clock.Now(), clienttypes.DefaultPruneLimit)

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setConsensusState(clientStore, clock, consensusStateFromHeader(header), height)
	setClientState(clientStore, &cs)

	return []exported.Height{height}
}

// CheckForMisbehaviour runs the shared consensus state checks for a Header.
func (cs ClientState) CheckForMisbehaviour(clientStore storetypes.KVStore, clientMsg exported.ClientMessage) bool {
	header, ok := clientMsg.(*Header)
	if !ok {
		return false
	}

	consState := consensusStateFromHeader(header)
	return clienttypes.CheckForMisbehaviour(clientStore, header.GetHeight(), clienttypes.MustMarshal(consState), consState.Timestamp)
}

// UpdateStateOnMisbehaviour freezes the client at the height of the misbehaviour.
func (cs ClientState) UpdateStateOnMisbehaviour(clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	cs.FrozenHeight = clienttypes.MisbehaviourHeight(clientMsg)

	setClientState(clientStore, &cs)
}
