/*
Package zktendermint implements a light client which follows a Tendermint chain through
succinct proofs instead of commit signatures. An off-chain prover runs the Tendermint light
client verification of a header against a trusted consensus state and produces a Groth16 proof
over BN254 attesting to it. The client checks the proof against the verifying key configured in
its client state, with a public input committing to the header transition.

Membership proofs are ICS23 proofs against the app hash, as for 07-tendermint.
*/
package zktendermint
