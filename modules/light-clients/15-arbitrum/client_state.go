package arbitrum

import (
	"context"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState tracks the L2 blocks confirmed by an Arbitrum rollup contract on the chain
// followed by the client L1ClientID. Heights are (0, L2 block number).
type ClientState struct {
	ChainID    uint64
	L1ClientID string

	RollupAddress []byte
	// slot holding the latest confirmed node number in its lowest order 8 bytes
	LatestConfirmedSlot []byte
	// slot of the node number => node mapping and the confirm data word of a node
	NodesSlot         []byte
	ConfirmDataOffset uint64

	TrustingPeriod clienttypes.Duration
	MaxClockDrift  clienttypes.Duration
	FrozenHeight   clienttypes.Height
	LatestHeight   clienttypes.Height

	IBCContractAddress []byte
	IBCCommitmentSlot  []byte
	AllowedRelayers    []string
}

// ClientType is arbitrum.
func (ClientState) ClientType() string {
	return exported.Arbitrum
}

// GetLatestHeight returns the latest L2 block number.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if cs.ChainID == 0 {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidChainID, "chain id cannot be zero")
	}
	if err := validateL1ClientID(cs.L1ClientID); err != nil {
		return err
	}
	if len(cs.RollupAddress) != common.AddressLength {
		return sdkerrors.Wrapf(ErrInvalidRollup, "rollup address must be %d bytes, got %d", common.AddressLength, len(cs.RollupAddress))
	}
	if len(cs.LatestConfirmedSlot) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidRollup, "latest confirmed slot must be %d bytes, got %d", common.HashLength, len(cs.LatestConfirmedSlot))
	}
	if len(cs.NodesSlot) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidRollup, "nodes slot must be %d bytes, got %d", common.HashLength, len(cs.NodesSlot))
	}
	if cs.TrustingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.MaxClockDrift <= 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != 0 {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight, "latest height revision number must be 0, got %d", cs.LatestHeight.RevisionNumber)
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "latest height revision height cannot be zero")
	}
	if len(cs.IBCContractAddress) != common.AddressLength {
		return sdkerrors.Wrapf(ErrInvalidIBCContract, "contract address must be %d bytes, got %d", common.AddressLength, len(cs.IBCContractAddress))
	}
	if len(cs.IBCCommitmentSlot) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidIBCContract, "commitment slot must be %d bytes, got %d", common.HashLength, len(cs.IBCCommitmentSlot))
	}
	return clienttypes.ValidateRelayers(cs.AllowedRelayers)
}

// validateL1ClientID checks that the parent chain client identifier is valid and names an
// ethereum client, the only family whose consensus roots are execution state roots.
func validateL1ClientID(clientID string) error {
	clientType, _, err := clienttypes.ParseClientIdentifier(clientID)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidL1Client, "%s: %v", clientID, err)
	}
	if clientType != exported.Ethereum {
		return sdkerrors.Wrapf(ErrInvalidL1Client, "parent chain client %s must be a %s client", clientID, exported.Ethereum)
	}
	return nil
}

func (cs ClientState) status(clientStore storetypes.KVStore, now time.Time) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	consState, found := GetConsensusState(clientStore, cs.LatestHeight)
	if !found {
		return exported.Expired
	}
	if clienttypes.IsExpired(consState.Timestamp, cs.TrustingPeriod.Std(), now) {
		return exported.Expired
	}
	return exported.Active
}

func (ClientState) getTimestampAtHeight(clientStore storetypes.KVStore, height exported.Height) (uint64, error) {
	consState, found := GetConsensusState(clientStore, height)
	if !found {
		return 0, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}
	return consState.GetTimestamp(), nil
}

// initialize stores the client with its trusted consensus state. A restricted client may only
// be created by one of its relayers.
func (cs ClientState) initialize(ctx context.Context, clientStore storetypes.KVStore, clock exported.Clock, consState exported.ConsensusState) error {
	consensusState, ok := consState.(*ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consState)
	}

	if err := clienttypes.AuthorizeRelayer(ctx, cs.AllowedRelayers); err != nil {
		return err
	}

	if err := clienttypes.CheckCreationStatus(cs.FrozenHeight, consensusState.GetTimestamp(), cs.TrustingPeriod.Std(), clock.Now()); err != nil {
		return err
	}

	setClientState(clientStore, &cs)
	setConsensusState(clientStore, clock, consensusState, cs.LatestHeight)
	return nil
}

func (cs ClientState) rollupAddress() common.Address {
	return common.BytesToAddress(cs.RollupAddress)
}

func (cs ClientState) commitmentVerifier() mpt.Verifier {
	return mpt.NewVerifier(common.BytesToAddress(cs.IBCContractAddress), common.BytesToHash(cs.IBCCommitmentSlot))
}

// verifyMembership checks a storage proof of the commitment of value at path against the L2
// state root stored at height.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	consensusState, err := cs.provenState(clientStore, clock, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return cs.commitmentVerifier().VerifyMembership(consensusState.StateRoot, path, value, proof)
}

// verifyNonMembership checks a storage proof that no commitment is stored at path against the
// L2 state root stored at height.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	consensusState, err := cs.provenState(clientStore, clock, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return cs.commitmentVerifier().VerifyNonMembership(consensusState.StateRoot, path, proof)
}

func (cs ClientState) provenState(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
) (*ConsensusState, error) {
	if !cs.FrozenHeight.IsZero() {
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	if cs.LatestHeight.LT(height) {
		return nil, sdkerrors.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	if err := clienttypes.VerifyDelayPeriodPassed(clientStore, clock, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return nil, err
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}
	return consensusState, nil
}
