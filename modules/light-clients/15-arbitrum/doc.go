/*
Package arbitrum implements a light client which follows an Arbitrum rollup through the rollup
contract on its parent chain.

The client does not verify signatures. A header carries an L2 block header together with the
number of the rollup node asserting it, and storage proofs of the rollup contract against the
state root of the parent chain client at a given height. The block is accepted once the rollup
has confirmed the node and the confirm data of the node commits to the block hash and send root
of the header. The parent chain state root is read from the client identified by L1ClientID
through an exported.ConsensusStateReader.

Membership proofs are Merkle-Patricia proofs of the IBC contract storage on the rollup against
the L2 state root.
*/
package arbitrum
