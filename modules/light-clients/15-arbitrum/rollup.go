package arbitrum

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/ComposableFi/light-clients/modules/core/23-commitment/mpt"
)

// latestConfirmedMask selects the latest confirmed node number, a uint64 packed in the lowest
// order bytes of its slot.
var latestConfirmedMask = uint256.NewInt(math.MaxUint64)

// ConfirmData returns the confirm data a rollup node holds for an L2 block:
// keccak256(blockHash ++ sendRoot).
func ConfirmData(blockHash, sendRoot common.Hash) common.Hash {
	return crypto.Keccak256Hash(blockHash.Bytes(), sendRoot.Bytes())
}

// latestConfirmed returns the latest confirmed node number held by the word of its slot.
func latestConfirmed(word common.Hash) *uint256.Int {
	n := new(uint256.Int).SetBytes32(word.Bytes())
	return n.And(n, latestConfirmedMask)
}

// NodeConfirmDataSlot returns the slot of the confirm data of node number in the nodes mapping
// declared at nodesSlot. confirmDataOffset is the position of the confirm data word in the
// node struct.
func NodeConfirmDataSlot(nodesSlot common.Hash, confirmDataOffset, node uint64) common.Hash {
	key := common.LeftPadBytes(new(uint256.Int).SetUint64(node).Bytes(), common.HashLength)
	return mpt.SlotOffset(mpt.MappingSlot(key, nodesSlot), confirmDataOffset)
}
