package types

import (
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var (
	// KeyProcessedTime is appended to consensus state key to store the processed time
	KeyProcessedTime = []byte("/processedTime")
	// KeyProcessedHeight is appended to consensus state key to store the processed height
	KeyProcessedHeight = []byte("/processedHeight")
)

// DefaultPruneLimit is the maximum number of expired consensus states removed by a single update.
const DefaultPruneLimit = 2

// StateUpdate is the result of verifying a header: the consensus state the header attests to,
// and the client state to store alongside it. ClientState is nil unless the header advances the
// latest height of the client.
type StateUpdate struct {
	ConsensusState exported.ConsensusState
	ClientState    exported.ClientState
}

// SetClientStateBytes stores the encoded client state.
func SetClientStateBytes(clientStore storetypes.KVStore, bz []byte) {
	clientStore.Set(host.ClientStateKey(), bz)
}

// GetClientStateBytes returns the encoded client state, if one is stored.
func GetClientStateBytes(clientStore storetypes.KVStore) ([]byte, bool) {
	bz := clientStore.Get(host.ClientStateKey())
	return bz, bz != nil
}

// SetConsensusStateBytes stores an encoded consensus state, records its processing metadata and
// inserts its entry into the trusted height index. Consensus states are immutable: callers must
// not overwrite an existing height.
func SetConsensusStateBytes(clientStore storetypes.KVStore, clock exported.Clock, height exported.Height, timestamp uint64, bz []byte) {
	clientStore.Set(host.ConsensusStateKey(height), bz)
	SetProcessedTime(clientStore, height, TimeToTimestamp(clock.Now()))
	SetProcessedHeight(clientStore, height, NewHeight(0, clock.BlockHeight()))
	NewTrustedHeightIndex(clientStore).Insert(height, timestamp)
}

// GetConsensusStateBytes returns the encoded consensus state stored at height.
func GetConsensusStateBytes(clientStore storetypes.KVStore, height exported.Height) ([]byte, bool) {
	bz := clientStore.Get(host.ConsensusStateKey(height))
	return bz, bz != nil
}

// HasConsensusState returns true if a consensus state is stored at height.
func HasConsensusState(clientStore storetypes.KVStore, height exported.Height) bool {
	return clientStore.Has(host.ConsensusStateKey(height))
}

// DeleteConsensusState removes the consensus state at height together with its metadata and
// index entries.
func DeleteConsensusState(clientStore storetypes.KVStore, height exported.Height) {
	clientStore.Delete(host.ConsensusStateKey(height))
	clientStore.Delete(ProcessedTimeKey(height))
	clientStore.Delete(ProcessedHeightKey(height))
	NewTrustedHeightIndex(clientStore).Delete(height)
}

// ProcessedTimeKey returns the key under which the processed time will be stored in the client store.
func ProcessedTimeKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedTime...)
}

// SetProcessedTime stores the time at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the time specified delay period in the tendermint client's
// verification functions
func SetProcessedTime(clientStore storetypes.KVStore, height exported.Height, timeNs uint64) {
	clientStore.Set(ProcessedTimeKey(height), sdk.Uint64ToBigEndian(timeNs))
}

// GetProcessedTime gets the time (in nanoseconds) at which this chain received and processed a tendermint header.
// This is used to validate that a received packet has passed the time delay period.
func GetProcessedTime(clientStore storetypes.KVStore, height exported.Height) (uint64, bool) {
	bz := clientStore.Get(ProcessedTimeKey(height))
	if len(bz) == 0 {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// ProcessedHeightKey returns the key under which the processed height will be stored in the client store.
func ProcessedHeightKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedHeight...)
}

// SetProcessedHeight stores the height at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the specified block delay period in the tendermint client's
// verification functions
func SetProcessedHeight(clientStore storetypes.KVStore, consHeight, processedHeight exported.Height) {
	clientStore.Set(ProcessedHeightKey(consHeight), []byte(processedHeight.String()))
}

// GetProcessedHeight gets the height at which this chain received and processed a tendermint header.
// This is used to validate that a received packet has passed the block delay period.
func GetProcessedHeight(clientStore storetypes.KVStore, height exported.Height) (exported.Height, bool) {
	bz := clientStore.Get(ProcessedHeightKey(height))
	if len(bz) == 0 {
		return nil, false
	}
	processedHeight, err := ParseHeight(string(bz))
	if err != nil {
		return nil, false
	}
	return processedHeight, true
}

// VerifyDelayPeriodPassed will ensure that at least delayTimePeriod amount of time and delayBlockPeriod number of blocks have passed
// since consensus state was submitted before allowing verification to continue.
func VerifyDelayPeriodPassed(clientStore storetypes.KVStore, clock exported.Clock, proofHeight exported.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if delayTimePeriod != 0 {
		// check that executing chain's timestamp has passed consensusState's processed time + delay time period
		processedTime, ok := GetProcessedTime(clientStore, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedTimeNotFound, "processed time not found for height: %s", proofHeight)
		}

		currentTimestamp := TimeToTimestamp(clock.Now())
		validTime := processedTime + delayTimePeriod

		// NOTE: delay time period is inclusive, so if currentTimestamp is validTime, then we return no error
		if currentTimestamp < validTime {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until time: %d, current time: %d", validTime, currentTimestamp)
		}
	}

	if delayBlockPeriod != 0 {
		// check that executing chain's height has passed consensusState's processed height + delay block period
		processedHeight, ok := GetProcessedHeight(clientStore, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedHeightNotFound, "processed height not found for height: %s", proofHeight)
		}

		currentHeight := NewHeight(0, clock.BlockHeight())
		validHeight := NewHeight(processedHeight.GetRevisionNumber(), processedHeight.GetRevisionHeight()+delayBlockPeriod)

		// NOTE: delay block period is inclusive, so if currentHeight is validHeight, then we return no error
		if currentHeight.LT(validHeight) {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until height: %s, current height: %s", validHeight, currentHeight)
		}
	}

	return nil
}

// IsExpired returns whether or not a consensus state with the given timestamp is past the
// trusting period relative to now. A state whose expiry equals now is still trusted.
func IsExpired(timestamp uint64, trustingPeriod time.Duration, now time.Time) bool {
	expirationTime := TimestampToTime(timestamp).Add(trustingPeriod)
	return expirationTime.Before(now)
}

// CheckCreationStatus returns an error unless a client created with the given frozen height and
// initial consensus state timestamp would be active at now. Families call it before writing
// anything to the client store.
func CheckCreationStatus(frozenHeight Height, timestamp uint64, trustingPeriod time.Duration, now time.Time) error {
	if !frozenHeight.IsZero() {
		return sdkerrors.Wrapf(ErrClientNotActive, "cannot create client frozen at height %s", frozenHeight)
	}
	if IsExpired(timestamp, trustingPeriod, now) {
		return sdkerrors.Wrapf(ErrClientNotActive, "initial consensus state at %s expired after %s", TimestampToTime(timestamp), trustingPeriod)
	}
	return nil
}

// PruneExpiredConsensusStates removes up to limit of the oldest consensus states which are
// expired relative to now. The consensus state at latestHeight is never pruned, the client needs
// it to report its status. The pruned heights are returned in ascending order.
func PruneExpiredConsensusStates(clientStore storetypes.KVStore, latestHeight exported.Height, trustingPeriod time.Duration, now time.Time, limit int) []Height {
	var expired []Height
	NewTrustedHeightIndex(clientStore).Ascending(func(height Height, timestamp uint64) bool {
		if len(expired) >= limit || !height.LT(latestHeight) || !IsExpired(timestamp, trustingPeriod, now) {
			return true
		}
		expired = append(expired, height)
		return false
	})

	// the iterator is closed at this point, deletion is safe
	for _, height := range expired {
		DeleteConsensusState(clientStore, height)
	}
	return expired
}
