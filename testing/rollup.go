package ibctesting

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	arbitrum "github.com/ComposableFi/light-clients/modules/light-clients/15-arbitrum"
)

const (
	ArbitrumChainID = 42161
	// L2 blocks are one second apart starting at the beacon genesis time
	ArbitrumGenesisTime = BeaconGenesisTime

	RollupConfirmDataOffset = 2
)

var (
	ArbitrumTrustingPeriod = time.Hour
	ArbitrumMaxClockDrift  = 30 * time.Second

	// RollupAddress is the rollup contract on the parent chain.
	RollupAddress = common.HexToAddress("0x0000000000000000000000000000000000a4b1e0")
	// RollupLatestConfirmedSlot packs the latest confirmed node with the first unresolved node.
	RollupLatestConfirmedSlot = common.BigToHash(big.NewInt(117))
	// RollupNodesSlot is the slot of the node number => node mapping.
	RollupNodesSlot = common.BigToHash(big.NewInt(118))
)

// L2BlockTime returns the time of the L2 block number.
func L2BlockTime(number uint64) time.Time {
	return time.Unix(int64(ArbitrumGenesisTime+number), 0).UTC()
}

// Rollup is an Arbitrum rollup contract in the state of its parent chain. Nodes are created
// and confirmed by writing their confirm data and the latest confirmed node number.
type Rollup struct {
	t testing.TB

	L1 *EthState

	firstUnresolved uint64
	latestConfirmed uint64
}

// NewRollup returns a rollup without confirmed nodes.
func NewRollup(t testing.TB) *Rollup {
	r := &Rollup{
		t:  t,
		L1: NewEthState(t),
	}
	r.setLatestConfirmed(0)
	return r
}

// ClientState returns a client of the rollup at latest following the parent chain through
// l1ClientID.
func (r *Rollup) ClientState(l1ClientID string, latest uint64) *arbitrum.ClientState {
	return &arbitrum.ClientState{
		ChainID:             ArbitrumChainID,
		L1ClientID:          l1ClientID,
		RollupAddress:       RollupAddress.Bytes(),
		LatestConfirmedSlot: RollupLatestConfirmedSlot.Bytes(),
		NodesSlot:           RollupNodesSlot.Bytes(),
		ConfirmDataOffset:   RollupConfirmDataOffset,
		TrustingPeriod:      clienttypes.Duration(ArbitrumTrustingPeriod),
		MaxClockDrift:       clienttypes.Duration(ArbitrumMaxClockDrift),
		LatestHeight:        clienttypes.NewHeight(0, latest),
		IBCContractAddress:  IBCContractAddress.Bytes(),
		IBCCommitmentSlot:   IBCCommitmentSlot.Bytes(),
	}
}

// ConsensusState returns the consensus state of an L2 block.
func (r *Rollup) ConsensusState(block *types.Header) *arbitrum.ConsensusState {
	return arbitrum.NewConsensusState(L2BlockTime(block.Number.Uint64()), block.Root.Bytes(), block.Hash().Bytes())
}

// L2Block returns the header of the L2 block number committing to stateRoot.
func (r *Rollup) L2Block(number uint64, stateRoot common.Hash) *types.Header {
	sendRoot := crypto.Keccak256Hash([]byte("send root"), new(big.Int).SetUint64(number).Bytes())
	return &types.Header{
		ParentHash: crypto.Keccak256Hash(new(big.Int).SetUint64(number - 1).Bytes()),
		UncleHash:  types.EmptyUncleHash,
		Root:       stateRoot,
		Difficulty: big.NewInt(1),
		Number:     new(big.Int).SetUint64(number),
		GasLimit:   1 << 50,
		Time:       ArbitrumGenesisTime + number,
		Extra:      sendRoot.Bytes(),
		BaseFee:    big.NewInt(100_000_000),
	}
}

// CreateNode writes the confirm data of block under node without confirming it.
func (r *Rollup) CreateNode(node uint64, block *types.Header) {
	slot := arbitrum.NodeConfirmDataSlot(RollupNodesSlot, RollupConfirmDataOffset, node)
	r.L1.SetStorage(RollupAddress, slot, arbitrum.ConfirmData(block.Hash(), common.BytesToHash(block.Extra)))

	if node >= r.firstUnresolved {
		r.firstUnresolved = node + 1
		r.setLatestConfirmed(r.latestConfirmed)
	}
}

// ConfirmNode creates the node of block and confirms every node up to it.
func (r *Rollup) ConfirmNode(node uint64, block *types.Header) {
	r.CreateNode(node, block)
	r.setLatestConfirmed(node)
}

func (r *Rollup) setLatestConfirmed(node uint64) {
	r.latestConfirmed = node

	word := new(uint256.Int).SetUint64(r.firstUnresolved)
	word.Lsh(word, 64)
	word.Or(word, uint256.NewInt(node))
	r.L1.SetStorage(RollupAddress, RollupLatestConfirmedSlot, word.Bytes32())
}

// L1Root returns the current state root of the parent chain.
func (r *Rollup) L1Root() common.Hash {
	return r.L1.Root()
}

// Header returns a header importing block through node, proven against the current state of
// the parent chain, to be known by its client at l1Height.
func (r *Rollup) Header(trustedHeight, l1Height clienttypes.Height, node uint64, block *types.Header) *arbitrum.Header {
	// flush storage roots into the account trie before proving
	r.L1.Root()

	return &arbitrum.Header{
		TrustedHeight:        trustedHeight,
		L1Height:             l1Height,
		L2Header:             types.CopyHeader(block),
		NodeNumber:           node,
		AccountProof:         r.L1.AccountProof(RollupAddress),
		LatestConfirmedProof: r.L1.StorageProof(RollupAddress, RollupLatestConfirmedSlot),
		ConfirmDataProof:     r.L1.StorageProof(RollupAddress, arbitrum.NodeConfirmDataSlot(RollupNodesSlot, RollupConfirmDataOffset, node)),
	}
}

var _ exported.ConsensusStateReader = (*ConsensusStateRoots)(nil)

// ConsensusStateRoots is an exported.ConsensusStateReader serving fixed roots.
type ConsensusStateRoots struct {
	mtx   sync.RWMutex
	roots map[string]map[clienttypes.Height][]byte
}

// NewConsensusStateRoots returns a reader without roots.
func NewConsensusStateRoots() *ConsensusStateRoots {
	return &ConsensusStateRoots{roots: make(map[string]map[clienttypes.Height][]byte)}
}

// Set sets the root of the client at height.
func (r *ConsensusStateRoots) Set(clientID string, height clienttypes.Height, root []byte) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.roots[clientID] == nil {
		r.roots[clientID] = make(map[clienttypes.Height][]byte)
	}
	r.roots[clientID][height] = root
}

// ConsensusStateRoot implements exported.ConsensusStateReader.
func (r *ConsensusStateRoots) ConsensusStateRoot(_ context.Context, clientID string, height exported.Height) ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	root, ok := r.roots[clientID][clienttypes.MustHeight(height)]
	if !ok {
		return nil, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "client (%s) at height %s", clientID, height)
	}
	return root, nil
}
