/*
Package ethereum implements a light client which follows the Ethereum beacon chain through its
sync committee.

A header is a light client update: an attested beacon block header signed by the sync committee
of its period, the finalized beacon block header proven against the attested state, the
execution state root proven against the finalized block body and the next sync committee proven
against the attested state. The client stores, per finalized slot, the execution state root and
the roots of the current and next sync committees. Sync committee signatures are BLS12-381
aggregates. The default backend is pure Go; building with the blst tag switches to blst.

Membership proofs are Merkle-Patricia proofs of the IBC contract storage against the execution
state root.
*/
package ethereum
