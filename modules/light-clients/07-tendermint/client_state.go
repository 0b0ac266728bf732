package tendermint

import (
	"strings"
	"time"

	ics23 "github.com/confio/ics23/go"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/light"
	tmtypes "github.com/tendermint/tendermint/types"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	ibcerrors "github.com/ComposableFi/light-clients/modules/core/errors"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState from Tendermint tracks the current validator set, latest height,
// and a possible frozen height.
type ClientState struct {
	ChainID    string
	TrustLevel Fraction
	// duration of the period since the LatestTimestamp during which the
	// submitted headers are valid for upgrade
	TrustingPeriod clienttypes.Duration
	// duration of the staking unbonding period
	UnbondingPeriod clienttypes.Duration
	// defines how much new (untrusted) header's Time can drift into the future.
	MaxClockDrift clienttypes.Duration
	// Block height when the client was frozen due to a misbehaviour
	FrozenHeight clienttypes.Height
	// Latest height the client was updated to
	LatestHeight clienttypes.Height
	// Proof specifications used in verifying counterparty state
	ProofSpecs commitmenttypes.ProofSpecs
	// Path at which next upgraded client will be committed.
	// Each element corresponds to the key for a single CommitmentProof in the
	// chained proof. NOTE: ClientState must stored under
	// `{upgradePath}/{upgradeHeight}/upgradedClient` and ConsensusState
	// must be stored under `{upgradepath}/{upgradeHeight}/upgradedConsState`
	UpgradePath []string
}

// NewClientState creates a new ClientState instance
func NewClientState(
	chainID string, trustLevel Fraction,
	trustingPeriod, ubdPeriod, maxClockDrift time.Duration,
	latestHeight clienttypes.Height, specs []*ics23.ProofSpec,
	upgradePath []string,
) *ClientState {
	return &ClientState{
		ChainID:         chainID,
		TrustLevel:      trustLevel,
		TrustingPeriod:  clienttypes.Duration(trustingPeriod),
		UnbondingPeriod: clienttypes.Duration(ubdPeriod),
		MaxClockDrift:   clienttypes.Duration(maxClockDrift),
		LatestHeight:    latestHeight,
		FrozenHeight:    clienttypes.ZeroHeight(),
		ProofSpecs:      specs,
		UpgradePath:     upgradePath,
	}
}

// GetChainID returns the chain-id
func (cs ClientState) GetChainID() string {
	return cs.ChainID
}

// ClientType is tendermint.
func (ClientState) ClientType() string {
	return exported.Tendermint
}

// GetLatestHeight returns latest block height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// getTimestampAtHeight returns the timestamp in nanoseconds of the consensus state at the given height.
func (ClientState) getTimestampAtHeight(clientStore storetypes.KVStore, height exported.Height) (uint64, error) {
	// get consensus state at height from clientStore to check for expiry
	consState, found := GetConsensusState(clientStore, height)
	if !found {
		return 0, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}
	return consState.GetTimestamp(), nil
}

// status returns the status of the tendermint client.
// The client may be:
// - Active: FrozenHeight is zero and client is not expired
// - Frozen: Frozen Height is not zero
// - Expired: the latest consensus state timestamp + trusting period < current time
//
// A frozen client will become expired, so the Frozen status
// has higher precedence.
func (cs ClientState) status(clientStore storetypes.KVStore, now time.Time) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	// get latest consensus state from clientStore to check for expiry
	consState, found := GetConsensusState(clientStore, cs.LatestHeight)
	if !found {
		// if the client state does not have an associated consensus state for its latest height
		// then it must be expired
		return exported.Expired
	}

	if cs.IsExpired(consState.GetTime(), now) {
		return exported.Expired
	}

	return exported.Active
}

// IsExpired returns whether or not the client has passed the trusting period since the last
// update (in which case no headers are considered valid).
func (cs ClientState) IsExpired(latestTimestamp, now time.Time) bool {
	expirationTime := latestTimestamp.Add(cs.TrustingPeriod.Std())
	return expirationTime.Before(now)
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainID) == "" {
		return sdkerrors.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}

	// NOTE: the value of tmtypes.MaxChainIDLen may change in the future.
	// If this occurs, the code here must account for potential difference
	// between the tendermint version being run by the counterparty chain
	// and the tendermint version used by this light client.
	if len(cs.ChainID) > tmtypes.MaxChainIDLen {
		return sdkerrors.Wrapf(ErrInvalidChainID, "chainID is too long; got: %d, max: %d", len(cs.ChainID), tmtypes.MaxChainIDLen)
	}

	if err := light.ValidateTrustLevel(cs.TrustLevel.ToTendermint()); err != nil {
		return sdkerrors.Wrap(ErrInvalidTrustLevel, err.Error())
	}
	if cs.TrustingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.UnbondingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidUnbondingPeriod, "unbonding period must be greater than zero")
	}
	if cs.MaxClockDrift <= 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}

	// the latest height revision number must match the chain id revision number
	if cs.LatestHeight.RevisionNumber != clienttypes.ParseChainID(cs.ChainID) {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight,
			"latest height revision number must match chain id revision number (%d != %d)", cs.LatestHeight.RevisionNumber, clienttypes.ParseChainID(cs.ChainID))
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "tendermint client's latest height revision height cannot be zero")
	}
	if cs.TrustingPeriod >= cs.UnbondingPeriod {
		return sdkerrors.Wrapf(
			ErrInvalidTrustingPeriod,
			"trusting period (%s) should be < unbonding period (%s)", cs.TrustingPeriod.Std(), cs.UnbondingPeriod.Std(),
		)
	}

	if cs.ProofSpecs == nil {
		return sdkerrors.Wrap(ErrInvalidProofSpecs, "proof specs cannot be nil for tm client")
	}
	for i, spec := range cs.ProofSpecs {
		if spec == nil {
			return sdkerrors.Wrapf(ErrInvalidProofSpecs, "proof spec cannot be nil at index: %d", i)
		}
	}
	// UpgradePath may be empty, but if it isn't, each key must be non-empty
	for i, k := range cs.UpgradePath {
		if strings.TrimSpace(k) == "" {
			return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "key in upgrade path at index %d cannot be empty", i)
		}
	}

	return nil
}

// ZeroCustomFields returns a ClientState that is a copy of the current ClientState
// with all client customizable fields zeroed out. All chain specific fields must
// remain unchanged. This client state will be used to verify chain upgrades when a
// chain breaks a light client verification parameter such as chainID.
func (cs ClientState) ZeroCustomFields() *ClientState {
	// copy over all chain-specified fields
	// and leave custom fields empty
	return &ClientState{
		ChainID:         cs.ChainID,
		UnbondingPeriod: cs.UnbondingPeriod,
		LatestHeight:    cs.LatestHeight,
		ProofSpecs:      cs.ProofSpecs,
		UpgradePath:     cs.UpgradePath,
	}
}

// initialize checks that the initial consensus state is an 07-tendermint consensus state and
// sets the client state, consensus state and associated metadata in the provided client store.
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

// verifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
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

// verifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	merkleProof, merklePath, consensusState, err := cs.proofArgs(clientStore, clock, height, delayTimePeriod, delayBlockPeriod, proof, path)
	if err != nil {
		return err
	}

	return merkleProof.VerifyNonMembership(cs.ProofSpecs, consensusState.Root, merklePath)
}

// proofArgs performs the checks shared by membership and non-membership verification and
// returns the decoded proof, the path and the consensus state the proof is rooted in.
func (cs ClientState) proofArgs(
	clientStore storetypes.KVStore,
	clock exported.Clock,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
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

	merkleProof, err := commitmenttypes.UnmarshalMerkleProof(proof)
	if err != nil {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "failed to unmarshal proof into ICS 23 commitment merkle proof")
	}

	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrapf(ibcerrors.ErrInvalidType, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}

	return merkleProof, merklePath, consensusState, nil
}
