package exported

import (
	"time"
)

// Status represents the status of a client
type Status string

const (
	// ModuleName is the name of the core light client module and the codespace of its errors.
	ModuleName = "ibc"

	// TypeClientMisbehaviour is the shared evidence misbehaviour type
	TypeClientMisbehaviour string = "client_misbehaviour"

	// Tendermint is used to indicate that the client uses the Tendermint Consensus Algorithm.
	Tendermint string = "07-tendermint"

	// ZKTendermint is used to indicate that the client verifies a succinct proof of Tendermint
	// light client verification instead of the commit signatures themselves.
	ZKTendermint string = "12-zktendermint"

	// Ethereum is used to indicate that the client follows the beacon chain sync committee.
	Ethereum string = "13-ethereum"

	// Arbitrum is used to indicate that the client tracks an optimistic rollup through the
	// confirmed-node storage of its settlement contract on the parent chain.
	Arbitrum string = "15-arbitrum"

	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Expired is a status type of a client. An expired client is not allowed to be used.
	Expired Status = "Expired"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// ClientState defines the required common functions for light clients.
type ClientState interface {
	ClientType() string
	GetLatestHeight() Height
	Validate() error
}

// ConsensusState is the state of the consensus process
type ConsensusState interface {
	ClientType() string // Consensus kind

	// GetRoot returns the commitment root of the consensus state,
	// which is used for key-value pair verification.
	GetRoot() []byte

	// GetTimestamp returns the timestamp (in nanoseconds) of the consensus state
	GetTimestamp() uint64

	ValidateBasic() error
}

// ClientMessage is an interface used to update an IBC client.
// The update may be done by a single header, a batch of headers, misbehaviour, or any type which when verified produces
// a change to state of the IBC client
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

// Header is the consensus state update information
type Header interface {
	ClientMessage

	GetHeight() Height
	GetTrustedHeight() Height
}

// Misbehaviour defines counterparty misbehaviour for a specific consensus type
type Misbehaviour interface {
	ClientMessage

	GetClientID() string
}

// Height is a wrapper interface over clienttypes.Height
// all clients must use the concrete implementation in types
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}

// Clock supplies the local time and block height against which trusting periods, clock drift
// and packet delay periods are evaluated.
type Clock interface {
	Now() time.Time
	BlockHeight() uint64
}

// String returns the string representation of a client status.
func (s Status) String() string {
	return string(s)
}
