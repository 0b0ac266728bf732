/*
Package tendermint implements a concrete ClientState, ConsensusState,
Header, Misbehaviour and types for the Tendermint consensus light client.
Headers are accepted once validators holding at least the trust level of
the trusted voting power have signed them, as checked by the tendermint
light package. This implementation is based off the ICS 07 specification
(https://github.com/cosmos/ibc/tree/main/spec/client/ics-007-tendermint-client)
*/
package tendermint
