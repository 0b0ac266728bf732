/*
Package mpt verifies Merkle-Patricia trie proofs of Ethereum style state: account proofs
against a block state root, and storage proofs against the storage root of an account.
A proof is the list of RLP encoded trie nodes visited from the root to the key, as returned
by eth_getProof. Keys are hashed with keccak256 before descent, as in the secure state trie.
*/
package mpt
