package types

import (
	"math"

	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

const (
	// KeyIterateConsensusStatePrefix is the prefix of the height ordered index entries.
	KeyIterateConsensusStatePrefix = "iterateConsensusStates"
	// KeyConsensusTimeIndexPrefix is the prefix of the timestamp ordered index entries.
	KeyConsensusTimeIndexPrefix = "consensusTimeIndex"

	heightKeyLength = 16
)

// TrustedHeightIndex is the ordered secondary index over the consensus states of one client.
// Entries map a height to the timestamp of its consensus state and are kept sorted by height,
// so the neighbours of any height can be found without scanning. A second set of entries keyed
// by timestamp answers which height was trusted at a given time.
//
// Every method closes its iterators before returning, callers may write to the store afterwards.
type TrustedHeightIndex struct {
	heights storetypes.KVStore
	times   storetypes.KVStore
}

// NewTrustedHeightIndex returns the index stored within the given client store.
func NewTrustedHeightIndex(clientStore storetypes.KVStore) TrustedHeightIndex {
	return TrustedHeightIndex{
		heights: prefix.NewStore(clientStore, []byte(KeyIterateConsensusStatePrefix)),
		times:   prefix.NewStore(clientStore, []byte(KeyConsensusTimeIndexPrefix)),
	}
}

// IterationKey returns the key under which the index entry of height is stored, relative to a
// client store.
func IterationKey(height exported.Height) []byte {
	return append([]byte(KeyIterateConsensusStatePrefix), bigEndianHeightBytes(height)...)
}

// Insert records the timestamp of the consensus state stored at height.
func (idx TrustedHeightIndex) Insert(height exported.Height, timestamp uint64) {
	heightBz := bigEndianHeightBytes(height)
	idx.heights.Set(heightBz, sdk.Uint64ToBigEndian(timestamp))
	idx.times.Set(timeKey(timestamp, heightBz), []byte{0x01})
}

// Delete removes the entries of height.
func (idx TrustedHeightIndex) Delete(height exported.Height) {
	heightBz := bigEndianHeightBytes(height)
	if bz := idx.heights.Get(heightBz); bz != nil {
		idx.times.Delete(timeKey(sdk.BigEndianToUint64(bz), heightBz))
	}
	idx.heights.Delete(heightBz)
}

// Get returns the timestamp recorded for height.
func (idx TrustedHeightIndex) Get(height exported.Height) (uint64, bool) {
	bz := idx.heights.Get(bigEndianHeightBytes(height))
	if bz == nil {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// Prev returns the entry with the largest height strictly lower than height.
func (idx TrustedHeightIndex) Prev(height exported.Height) (Height, uint64, bool) {
	iterator := idx.heights.ReverseIterator(nil, bigEndianHeightBytes(height))
	defer iterator.Close()

	if !iterator.Valid() {
		return Height{}, 0, false
	}
	return parseHeightKey(iterator.Key()), sdk.BigEndianToUint64(iterator.Value()), true
}

// Next returns the entry with the smallest height strictly greater than height.
func (idx TrustedHeightIndex) Next(height exported.Height) (Height, uint64, bool) {
	heightBz := bigEndianHeightBytes(height)
	iterator := idx.heights.Iterator(heightBz, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		next := parseHeightKey(iterator.Key())
		if next.EQ(height) {
			continue
		}
		return next, sdk.BigEndianToUint64(iterator.Value()), true
	}
	return Height{}, 0, false
}

// Ascending calls cb for every entry in ascending height order until cb returns true.
func (idx TrustedHeightIndex) Ascending(cb func(height Height, timestamp uint64) (stop bool)) {
	iterator := idx.heights.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		if cb(parseHeightKey(iterator.Key()), sdk.BigEndianToUint64(iterator.Value())) {
			return
		}
	}
}

// LatestHeightAtOrBefore returns the greatest height whose consensus state timestamp is not
// after timestamp.
func (idx TrustedHeightIndex) LatestHeightAtOrBefore(timestamp uint64) (Height, bool) {
	var end []byte
	if timestamp < math.MaxUint64 {
		end = sdk.Uint64ToBigEndian(timestamp + 1)
	}

	iterator := idx.times.ReverseIterator(nil, end)
	defer iterator.Close()

	if !iterator.Valid() {
		return Height{}, false
	}
	return parseHeightKey(iterator.Key()[8:]), true
}

// bigEndianHeightBytes encodes a height so that the lexicographic order of the keys is the
// order of the heights.
func bigEndianHeightBytes(height exported.Height) []byte {
	heightBytes := make([]byte, heightKeyLength)
	copy(heightBytes[:8], sdk.Uint64ToBigEndian(height.GetRevisionNumber()))
	copy(heightBytes[8:], sdk.Uint64ToBigEndian(height.GetRevisionHeight()))
	return heightBytes
}

func parseHeightKey(key []byte) Height {
	return NewHeight(sdk.BigEndianToUint64(key[:8]), sdk.BigEndianToUint64(key[8:heightKeyLength]))
}

func timeKey(timestamp uint64, heightBz []byte) []byte {
	return append(sdk.Uint64ToBigEndian(timestamp), heightBz...)
}
