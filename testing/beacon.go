package ibctesting

import (
	"encoding/binary"
	"math/big"
	"sync"
	"testing"
	"time"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	blsfr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/minio/sha256-simd"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	ethereum "github.com/ComposableFi/light-clients/modules/light-clients/13-ethereum"
)

const (
	// minimal preset: a sync committee period is 64 slots of 6 seconds
	BeaconSecondsPerSlot               = 6
	BeaconSlotsPerEpoch                = 8
	BeaconEpochsPerSyncCommitteePeriod = 8
	BeaconSlotsPerPeriod               = BeaconSlotsPerEpoch * BeaconEpochsPerSyncCommitteePeriod

	BeaconGenesisTime = 1_600_000_000
)

var (
	BeaconTrustingPeriod = time.Hour
	BeaconMaxClockDrift  = 30 * time.Second

	// IBCContractAddress is the counterparty contract keeping IBC commitments.
	IBCContractAddress = common.HexToAddress("0x00000000000000000000000000000000000ac0de")
	// IBCCommitmentSlot is the slot of the commitments mapping of the contract.
	IBCCommitmentSlot = common.BigToHash(big.NewInt(0))

	blsSignatureDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

	// sync committees are deterministic per period and slow to derive
	syncCommittees sync.Map
)

// SSZTree is a sparse binary Merkle tree addressed by generalized index. Subtrees without any
// leaf hash to zero.
type SSZTree struct {
	leaves map[uint64][32]byte
}

// NewSSZTree returns an empty tree.
func NewSSZTree() *SSZTree {
	return &SSZTree{leaves: make(map[uint64][32]byte)}
}

// Set sets the leaf at gindex.
func (t *SSZTree) Set(gindex uint64, leaf [32]byte) {
	t.leaves[gindex] = leaf
}

// Root returns the root of the tree.
func (t *SSZTree) Root() [32]byte {
	return t.node(1)
}

// Branch returns the sibling nodes of gindex from the leaf up.
func (t *SSZTree) Branch(gindex uint64) [][]byte {
	var branch [][]byte
	for ; gindex > 1; gindex >>= 1 {
		sibling := t.node(gindex ^ 1)
		branch = append(branch, sibling[:])
	}
	return branch
}

func (t *SSZTree) node(gindex uint64) [32]byte {
	if leaf, ok := t.leaves[gindex]; ok {
		return leaf
	}
	if !t.hasLeafBelow(gindex) {
		return [32]byte{}
	}
	left, right := t.node(2*gindex), t.node(2*gindex+1)
	return sha256.Sum256(append(left[:], right[:]...))
}

func (t *SSZTree) hasLeafBelow(gindex uint64) bool {
	for leaf := range t.leaves {
		for leaf > gindex {
			leaf >>= 1
		}
		if leaf == gindex {
			return true
		}
	}
	return false
}

// syncCommitteeKeys is a sync committee with the secret keys of its members.
type syncCommitteeKeys struct {
	secrets   []blsfr.Element
	committee ethereum.SyncCommittee
}

// SyncCommittee returns a copy of the committee of period. Member i holds the secret key
// period*SyncCommitteeSize + i + 1.
func SyncCommittee(period uint64) ethereum.SyncCommittee {
	committee := syncCommitteeAt(period).committee

	pubkeys := make([][]byte, len(committee.Pubkeys))
	for i, pk := range committee.Pubkeys {
		pubkeys[i] = append([]byte(nil), pk...)
	}
	return ethereum.SyncCommittee{
		Pubkeys:         pubkeys,
		AggregatePubkey: append([]byte(nil), committee.AggregatePubkey...),
	}
}

func syncCommitteeAt(period uint64) *syncCommitteeKeys {
	if keys, ok := syncCommittees.Load(period); ok {
		return keys.(*syncCommitteeKeys)
	}

	keys := &syncCommitteeKeys{
		secrets: make([]blsfr.Element, ethereum.SyncCommitteeSize),
		committee: ethereum.SyncCommittee{
			Pubkeys: make([][]byte, ethereum.SyncCommitteeSize),
		},
	}

	var sum blsfr.Element
	for i := range keys.secrets {
		keys.secrets[i].SetUint64(period*ethereum.SyncCommitteeSize + uint64(i) + 1)
		sum.Add(&sum, &keys.secrets[i])
		keys.committee.Pubkeys[i] = blsPubkey(&keys.secrets[i])
	}
	keys.committee.AggregatePubkey = blsPubkey(&sum)

	actual, _ := syncCommittees.LoadOrStore(period, keys)
	return actual.(*syncCommitteeKeys)
}

// sign returns the aggregate signature of msg by the first participants members.
func (k *syncCommitteeKeys) sign(t testing.TB, msg []byte, participants int) []byte {
	var sum blsfr.Element
	for i := 0; i < participants; i++ {
		sum.Add(&sum, &k.secrets[i])
	}

	hm, err := bls12381.HashToG2(msg, blsSignatureDST)
	require.NoError(t, err)

	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&hm, sum.BigInt(new(big.Int)))
	bz := sig.Bytes()
	return bz[:]
}

func blsPubkey(secret *blsfr.Element) []byte {
	_, _, g1, _ := bls12381.Generators()
	var pk bls12381.G1Affine
	pk.ScalarMultiplication(&g1, secret.BigInt(new(big.Int)))
	bz := pk.Bytes()
	return bz[:]
}

// BeaconChain produces sync committee light client updates for an Ethereum network running the
// minimal preset. Its chain is fully determined by slot numbers; execution state roots are
// chosen by the caller.
type BeaconChain struct {
	t testing.TB

	GenesisValidatorsRoot []byte
	ForkParameters        ethereum.ForkParameters
}

// NewBeaconChain returns a network which forks at epochs 1 and 16.
func NewBeaconChain(t testing.TB) *BeaconChain {
	gvr := sha256.Sum256([]byte("genesis validators root"))
	return &BeaconChain{
		t:                     t,
		GenesisValidatorsRoot: gvr[:],
		ForkParameters: ethereum.ForkParameters{
			GenesisForkVersion: []byte{0, 0, 0, 1},
			Forks: []ethereum.Fork{
				{Version: []byte{1, 0, 0, 1}, Epoch: 1},
				{Version: []byte{2, 0, 0, 1}, Epoch: 16},
			},
		},
	}
}

// Period returns the sync committee period of slot.
func Period(slot uint64) uint64 {
	return slot / BeaconSlotsPerPeriod
}

// SlotTime returns the start of slot.
func SlotTime(slot uint64) time.Time {
	return time.Unix(int64(BeaconGenesisTime+slot*BeaconSecondsPerSlot), 0).UTC()
}

// ClientState returns a client of the network at latestSlot.
func (c *BeaconChain) ClientState(latestSlot uint64) *ethereum.ClientState {
	return &ethereum.ClientState{
		GenesisValidatorsRoot:        c.GenesisValidatorsRoot,
		GenesisTime:                  BeaconGenesisTime,
		ForkParameters:               c.ForkParameters,
		SecondsPerSlot:               BeaconSecondsPerSlot,
		SlotsPerEpoch:                BeaconSlotsPerEpoch,
		EpochsPerSyncCommitteePeriod: BeaconEpochsPerSyncCommitteePeriod,
		TrustingPeriod:               clienttypes.Duration(BeaconTrustingPeriod),
		MaxClockDrift:                clienttypes.Duration(BeaconMaxClockDrift),
		FrozenHeight:                 clienttypes.ZeroHeight(),
		LatestHeight:                 clienttypes.NewHeight(0, latestSlot),
		IBCContractAddress:           IBCContractAddress.Bytes(),
		IBCCommitmentSlot:            IBCCommitmentSlot.Bytes(),
	}
}

// ConsensusState returns the consensus state of the network at slot.
func (c *BeaconChain) ConsensusState(slot uint64, executionStateRoot common.Hash) *ethereum.ConsensusState {
	current := SyncCommittee(Period(slot)).HashTreeRoot()
	next := SyncCommittee(Period(slot) + 1).HashTreeRoot()
	return ethereum.NewConsensusState(slot, SlotTime(slot), executionStateRoot.Bytes(), current[:], next[:])
}

// Update returns an update finalizing finalizedSlot with executionStateRoot, attested at
// attestedSlot and signed at signatureSlot by the first participants members of the committee
// of the signature period.
func (c *BeaconChain) Update(
	trustedHeight clienttypes.Height,
	finalizedSlot, attestedSlot, signatureSlot uint64,
	participants int,
	executionStateRoot common.Hash,
) *ethereum.Header {
	body := NewSSZTree()
	body.Set(ethereum.ExecutionStateRootGindex, executionStateRoot)
	bodyRoot := body.Root()

	finalized := blockHeader(finalizedSlot, bodyRoot[:])

	nextSyncCommittee := SyncCommittee(Period(attestedSlot) + 1)
	state := NewSSZTree()
	state.Set(ethereum.FinalizedRootGindex, finalized.HashTreeRoot())
	state.Set(ethereum.NextSyncCommitteeGindex, nextSyncCommittee.HashTreeRoot())
	stateRoot := state.Root()

	attested := blockHeader(attestedSlot, nil)
	attested.StateRoot = stateRoot[:]

	header := &ethereum.Header{
		TrustedHeight:           trustedHeight,
		SignatureSlot:           signatureSlot,
		AttestedHeader:          attested,
		FinalizedHeader:         finalized,
		FinalityBranch:          state.Branch(ethereum.FinalizedRootGindex),
		ExecutionStateRoot:      executionStateRoot.Bytes(),
		ExecutionBranch:         body.Branch(ethereum.ExecutionStateRootGindex),
		SyncCommittee:           SyncCommittee(Period(signatureSlot)),
		NextSyncCommittee:       nextSyncCommittee,
		NextSyncCommitteeBranch: state.Branch(ethereum.NextSyncCommitteeGindex),
	}
	return c.Sign(header, participants)
}

// Sign sets the aggregate signature of the attested header of header by the first participants
// members of the committee of the signature period.
func (c *BeaconChain) Sign(header *ethereum.Header, participants int) *ethereum.Header {
	signatureSlot := header.SignatureSlot
	if signatureSlot == 0 {
		signatureSlot = 1
	}
	forkVersion := c.ForkParameters.ForkVersion((signatureSlot - 1) / BeaconSlotsPerEpoch)
	domain := ethereum.ComputeDomain(ethereum.DomainSyncCommittee, forkVersion, c.GenesisValidatorsRoot)
	signingRoot := ethereum.ComputeSigningRoot(header.AttestedHeader.HashTreeRoot(), domain)

	bits := bitfield.NewBitvector512()
	for i := 0; i < participants; i++ {
		bits.SetBitAt(uint64(i), true)
	}

	header.SyncAggregate = ethereum.SyncAggregate{
		SyncCommitteeBits:      bits,
		SyncCommitteeSignature: syncCommitteeAt(Period(header.SignatureSlot)).sign(c.t, signingRoot[:], participants),
	}
	return header
}

func blockHeader(slot uint64, bodyRoot []byte) ethereum.BeaconBlockHeader {
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], slot)
	parent := sha256.Sum256(append([]byte("parent"), seed[:]...))
	state := sha256.Sum256(append([]byte("state"), seed[:]...))
	if bodyRoot == nil {
		body := sha256.Sum256(append([]byte("body"), seed[:]...))
		bodyRoot = body[:]
	}

	return ethereum.BeaconBlockHeader{
		Slot:          slot,
		ProposerIndex: slot % 64,
		ParentRoot:    parent[:],
		StateRoot:     state[:],
		BodyRoot:      bodyRoot,
	}
}
