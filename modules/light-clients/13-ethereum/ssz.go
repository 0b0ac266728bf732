package ethereum

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"
)

const (
	// RootSize is the size of an SSZ hash tree root.
	RootSize = sha256.Size
	// PubkeySize is the size of a compressed BLS12-381 public key.
	PubkeySize = 48
	// SignatureSize is the size of a compressed BLS12-381 signature.
	SignatureSize = 96
	// SyncCommitteeSize is the number of members of a sync committee.
	SyncCommitteeSize = 512

	// generalized indices in the beacon state and block body trees
	FinalizedRootGindex      = 105
	NextSyncCommitteeGindex  = 55
	ExecutionStateRootGindex = 802
)

// DomainSyncCommittee is the domain type of sync committee signatures.
var DomainSyncCommittee = [4]byte{0x07, 0x00, 0x00, 0x00}

// BeaconBlockHeader is the header of a beacon block.
type BeaconBlockHeader struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    []byte
	StateRoot     []byte
	BodyRoot      []byte
}

// HashTreeRoot returns the SSZ hash tree root of the header.
func (h BeaconBlockHeader) HashTreeRoot() [RootSize]byte {
	return merkleize([][RootSize]byte{
		uint64Chunk(h.Slot),
		uint64Chunk(h.ProposerIndex),
		toRoot(h.ParentRoot),
		toRoot(h.StateRoot),
		toRoot(h.BodyRoot),
		{}, {}, {},
	})
}

// SyncCommittee is the set of validators signing beacon block headers during a period.
type SyncCommittee struct {
	Pubkeys         [][]byte
	AggregatePubkey []byte
}

// HashTreeRoot returns the SSZ hash tree root of the committee.
func (c SyncCommittee) HashTreeRoot() [RootSize]byte {
	chunks := make([][RootSize]byte, SyncCommitteeSize)
	for i := 0; i < SyncCommitteeSize && i < len(c.Pubkeys); i++ {
		chunks[i] = pubkeyRoot(c.Pubkeys[i])
	}
	pubkeys := merkleize(chunks)
	aggregate := pubkeyRoot(c.AggregatePubkey)
	return hashPair(pubkeys[:], aggregate[:])
}

// ComputeDomain returns the signature domain of domainType for the fork version on the chain
// identified by its genesis validators root.
func ComputeDomain(domainType [4]byte, forkVersion, genesisValidatorsRoot []byte) [RootSize]byte {
	var version [RootSize]byte
	copy(version[:], forkVersion)
	forkDataRoot := hashPair(version[:], genesisValidatorsRoot)

	var domain [RootSize]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}

// ComputeSigningRoot returns the message signed for objectRoot in domain.
func ComputeSigningRoot(objectRoot, domain [RootSize]byte) [RootSize]byte {
	return hashPair(objectRoot[:], domain[:])
}

// IsValidMerkleBranch checks that leaf sits at generalized index gindex of the tree with root.
// The branch lists the sibling nodes from the leaf up.
func IsValidMerkleBranch(leaf [RootSize]byte, branch [][]byte, gindex uint64, root []byte) bool {
	depth := floorLog2(gindex)
	if len(branch) != depth || len(root) != RootSize {
		return false
	}

	value := leaf
	for i := 0; i < depth; i++ {
		if len(branch[i]) != RootSize {
			return false
		}
		if (gindex>>uint(i))&1 == 1 {
			value = hashPair(branch[i], value[:])
		} else {
			value = hashPair(value[:], branch[i])
		}
	}
	return value == toRoot(root)
}

// floorLog2 returns the depth of gindex in its tree.
func floorLog2(gindex uint64) int {
	depth := 0
	for gindex > 1 {
		gindex >>= 1
		depth++
	}
	return depth
}

// merkleize folds a power of two number of chunks into their root.
func merkleize(chunks [][RootSize]byte) [RootSize]byte {
	for len(chunks) > 1 {
		next := make([][RootSize]byte, len(chunks)/2)
		for i := range next {
			next[i] = hashPair(chunks[2*i][:], chunks[2*i+1][:])
		}
		chunks = next
	}
	return chunks[0]
}

func hashPair(a, b []byte) [RootSize]byte {
	h := sha256.New()
	h.Write(a)
	h.Write(b)

	var root [RootSize]byte
	copy(root[:], h.Sum(nil))
	return root
}

// pubkeyRoot is the root of a 48 byte vector: two chunks, the second zero padded.
func pubkeyRoot(pubkey []byte) [RootSize]byte {
	var chunks [2 * RootSize]byte
	copy(chunks[:], pubkey)
	return hashPair(chunks[:RootSize], chunks[RootSize:])
}

func uint64Chunk(v uint64) [RootSize]byte {
	var chunk [RootSize]byte
	binary.LittleEndian.PutUint64(chunk[:8], v)
	return chunk
}

func toRoot(bz []byte) [RootSize]byte {
	var root [RootSize]byte
	copy(root[:], bz)
	return root
}
