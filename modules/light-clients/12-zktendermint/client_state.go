package zktendermint

import (
	"strings"
	"time"

	ics23 "github.com/confio/ics23/go"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	tmtypes "github.com/tendermint/tendermint/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState tracks a Tendermint chain whose headers are proven by a Groth16 circuit.
type ClientState struct {
	ChainID         string
	TrustingPeriod  clienttypes.Duration
	UnbondingPeriod clienttypes.Duration
	MaxClockDrift   clienttypes.Duration
	FrozenHeight    clienttypes.Height
	LatestHeight    clienttypes.Height
	ProofSpecs      commitmenttypes.ProofSpecs
	// uncompressed Groth16 verifying key of the header circuit
	VerifyingKey []byte
}

// NewClientState creates a new ClientState instance.
func NewClientState(
	chainID string, trustingPeriod, ubdPeriod, maxClockDrift time.Duration,
	latestHeight clienttypes.Height, specs []*ics23.ProofSpec, verifyingKey []byte,
) *ClientState {
	return &ClientState{
		ChainID:         chainID,
		TrustingPeriod:  clienttypes.Duration(trustingPeriod),
		UnbondingPeriod: clienttypes.Duration(ubdPeriod),
		MaxClockDrift:   clienttypes.Duration(maxClockDrift),
		FrozenHeight:    clienttypes.ZeroHeight(),
		LatestHeight:    latestHeight,
		ProofSpecs:      specs,
		VerifyingKey:    verifyingKey,
	}
}

// ClientType is zk tendermint.
func (ClientState) ClientType() string {
	return exported.ZKTendermint
}

// GetLatestHeight returns latest block height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// Validate performs a basic validation of the client state fields. The verifying key must
// decode to valid curve points.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainID) == "" {
		return sdkerrors.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}
	if len(cs.ChainID) > tmtypes.MaxChainIDLen {
		return sdkerrors.Wrapf(ErrInvalidChainID, "chainID is too long; got: %d, max: %d", len(cs.ChainID), tmtypes.MaxChainIDLen)
	}
	if cs.TrustingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.UnbondingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidUnbondingPeriod, "unbonding period must be greater than zero")
	}
	if cs.TrustingPeriod >= cs.UnbondingPeriod {
		return sdkerrors.Wrapf(
			ErrInvalidTrustingPeriod,
			"trusting period (%s) should be < unbonding period (%s)", cs.TrustingPeriod.Std(), cs.UnbondingPeriod.Std(),
		)
	}
	if cs.MaxClockDrift <= 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != clienttypes.ParseChainID(cs.ChainID) {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight,
			"latest height revision number must match chain id revision number (%d != %d)", cs.LatestHeight.RevisionNumber, clienttypes.ParseChainID(cs.ChainID))
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "latest height revision height cannot be zero")
	}
	if len(cs.ProofSpecs) == 0 {
		return sdkerrors.Wrap(ErrInvalidProofSpecs, "proof specs cannot be empty")
	}
	for i, spec := range cs.ProofSpecs {
		if spec == nil {
			return sdkerrors.Wrapf(ErrInvalidProofSpecs, "proof spec cannot be nil at index: %d", i)
		}
	}

	_, err := CachedVerifyingKey(cs.VerifyingKey)
	return err
}

// status returns Frozen if the client was frozen, Expired if the consensus state at the latest
// height is missing or outside the trusting period, and Active otherwise.
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

func (cs ClientState) initialize(clientStore storetypes.KVStore, clock exported.Clock, consState exported.ConsensusState) error {
	consensusState, ok := consState.(*ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consState)
	}

	if err := clienttypes.CheckCreationStatus(cs.FrozenHeight, consensusState.GetTimestamp(), cs.TrustingPeriod.Std(), clock.Now()); err != nil {
		return err
	}

	setClientState(clientStore, &cs)
	setConsensusState(clientStore, clock, consensusState, cs.LatestHeight)
	return nil
}

// verifyMembership checks an ICS23 proof of value at path against the app hash stored at height.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	merkleProof, merklePath, consensusState, err := cs.proofArgs(clientStore, clock, height, delayTimePeriod, delayBlockPeriod, proof, path)
	if err != nil {
		return err
	}
	return merkleProof.VerifyMembership(cs.ProofSpecs, consensusState.Root, merklePath, value)
}

// verifyNonMembership checks an ICS23 proof of the absence of path against the app hash stored
// at height.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	merkleProof, merklePath, consensusState, err := cs.proofArgs(clientStore, clock, height, delayTimePeriod, delayBlockPeriod, proof, path)
	if err != nil {
		return err
	}
	return merkleProof.VerifyNonMembership(cs.ProofSpecs, consensusState.Root, merklePath)
}

func (cs ClientState) proofArgs(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) (commitmenttypes.MerkleProof, commitmenttypes.MerklePath, *ConsensusState, error) {
	if !cs.FrozenHeight.IsZero() {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	if cs.LatestHeight.LT(height) {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	if err := clienttypes.VerifyDelayPeriodPassed(clientStore, clock, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, err
	}

	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrapf(ibcerrors.ErrInvalidType, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}

	merkleProof, err := commitmenttypes.UnmarshalMerkleProof(proof)
	if err != nil {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "failed to unmarshal proof into ICS 23 commitment merkle proof")
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}
	return merkleProof, merklePath, consensusState, nil
}
