package exported

import (
	"context"
)

// LightClientModule is the interface every light client family implements. The core client
// keeper routes to a module by client type and always passes the client identifier, from which
// the module obtains its isolated client store.
type LightClientModule interface {
	// Initialize is called upon client creation, it allows the client to perform validation on the client state and initial consensus state.
	// The light client module is responsible for setting any client-specific data in the store. This includes the client state,
	// initial consensus state and any associated metadata.
	Initialize(ctx context.Context, clientID string, clientState ClientState, consensusState ConsensusState) error

	// VerifyClientMessage must verify a ClientMessage. A ClientMessage could be a Header or Misbehaviour.
	// It must handle each type of ClientMessage appropriately. Calls to CheckForMisbehaviour, UpdateState, and UpdateStateOnMisbehaviour
	// will assume that the content of the ClientMessage has been verified and can be trusted. An error should be returned
	// if the ClientMessage fails to verify.
	VerifyClientMessage(ctx context.Context, clientID string, clientMsg ClientMessage) error

	// CheckForMisbehaviour checks for evidence of a misbehaviour in Header or Misbehaviour type. It assumes the ClientMessage
	// has already been verified.
	CheckForMisbehaviour(ctx context.Context, clientID string, clientMsg ClientMessage) bool

	// UpdateStateOnMisbehaviour should perform appropriate state changes on a client state given that misbehaviour has been detected and verified
	UpdateStateOnMisbehaviour(ctx context.Context, clientID string, clientMsg ClientMessage)

	// UpdateState updates and stores as necessary any associated information for an IBC client, such as the ClientState and corresponding ConsensusState.
	// Upon successful update, a list of consensus heights is returned. It assumes the ClientMessage has already been verified.
	UpdateState(ctx context.Context, clientID string, clientMsg ClientMessage) []Height

	// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
	VerifyMembership(
		ctx context.Context,
		clientID string,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path Path,
		value []byte,
	) error

	// VerifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
	VerifyNonMembership(
		ctx context.Context,
		clientID string,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path Path,
	) error

	// Status must return the status of the client. Only Active clients are allowed to process packets.
	Status(ctx context.Context, clientID string) Status

	// LatestHeight returns the latest height of the client. If no client is present for the provided client identifier a zero value height may be returned.
	LatestHeight(ctx context.Context, clientID string) Height

	// TimestampAtHeight must return the timestamp for the consensus state associated with the provided height.
	TimestampAtHeight(ctx context.Context, clientID string, height Height) (uint64, error)
}

// MisbehaviourVerifier is implemented by light client modules which accept explicit misbehaviour
// evidence. Modules that do not implement it reject evidence with ErrUnimplemented.
type MisbehaviourVerifier interface {
	VerifyMisbehaviour(ctx context.Context, clientID string, misbehaviour Misbehaviour) error
}

// UpgradeVerifier is implemented by light client modules which can follow a counterparty
// upgrade to a new revision through upgrade proofs.
type UpgradeVerifier interface {
	// VerifyUpgradeAndUpdateState must verify that the upgraded client and consensus states were committed by the
	// counterparty at its latest height under the upgrade path, and then replace the stored states.
	VerifyUpgradeAndUpdateState(
		ctx context.Context,
		clientID string,
		newClient ClientState,
		newConsState ConsensusState,
		upgradeClientProof,
		upgradeConsensusStateProof []byte,
	) error
}

// ConsensusStateReader gives a light client read access to the consensus states of other clients.
// Settlement clients use it to obtain the parent chain state root their proofs are rooted in.
type ConsensusStateReader interface {
	ConsensusStateRoot(ctx context.Context, clientID string, height Height) ([]byte, error)
}

// ConsensusStateQuerier is implemented by light client modules which expose their stored
// consensus states to the core client keeper.
type ConsensusStateQuerier interface {
	ConsensusState(ctx context.Context, clientID string, height Height) (ConsensusState, bool)
}
