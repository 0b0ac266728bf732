package ethereum

import (
	"math"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/holiman/uint256"
)

// ForkVersionSize is the size of a beacon chain fork version.
const ForkVersionSize = 4

// Fork is a scheduled network upgrade which changes the fork version from Epoch on.
type Fork struct {
	Version []byte
	Epoch   uint64
}

// ForkParameters is the fork schedule of the beacon chain.
type ForkParameters struct {
	GenesisForkVersion []byte
	Forks              []Fork
}

// Validate checks the version sizes and that forks are scheduled in strictly increasing epochs.
func (fp ForkParameters) Validate() error {
	if len(fp.GenesisForkVersion) != ForkVersionSize {
		return sdkerrors.Wrapf(ErrInvalidForkParameters, "genesis fork version must be %d bytes, got %d", ForkVersionSize, len(fp.GenesisForkVersion))
	}
	for i, fork := range fp.Forks {
		if len(fork.Version) != ForkVersionSize {
			return sdkerrors.Wrapf(ErrInvalidForkParameters, "fork %d version must be %d bytes, got %d", i, ForkVersionSize, len(fork.Version))
		}
		if i > 0 && fork.Epoch <= fp.Forks[i-1].Epoch {
			return sdkerrors.Wrapf(ErrInvalidForkParameters, "fork %d epoch %d must be greater than previous fork epoch %d", i, fork.Epoch, fp.Forks[i-1].Epoch)
		}
	}
	return nil
}

// ForkVersion returns the fork version active at epoch.
func (fp ForkParameters) ForkVersion(epoch uint64) []byte {
	version := fp.GenesisForkVersion
	for _, fork := range fp.Forks {
		if fork.Epoch > epoch {
			break
		}
		version = fork.Version
	}
	return version
}

func (cs ClientState) computeEpoch(slot uint64) uint64 {
	return slot / cs.SlotsPerEpoch
}

func (cs ClientState) computeSyncCommitteePeriod(slot uint64) uint64 {
	return cs.computeEpoch(slot) / cs.EpochsPerSyncCommitteePeriod
}

var nanosPerSecond = uint256.NewInt(1_000_000_000)

// slotTimestamp returns the start of slot in unix nanoseconds. Slots starting beyond the range
// of a signed 64-bit nanosecond timestamp are rejected.
func (cs ClientState) slotTimestamp(slot uint64) (uint64, error) {
	timestamp := new(uint256.Int).Mul(uint256.NewInt(slot), uint256.NewInt(cs.SecondsPerSlot))
	timestamp.Add(timestamp, uint256.NewInt(cs.GenesisTime))
	timestamp.Mul(timestamp, nanosPerSecond)

	if !timestamp.IsUint64() || timestamp.Uint64() > math.MaxInt64 {
		return 0, sdkerrors.Wrapf(ErrInvalidHeaderHeight, "timestamp of slot %d overflows", slot)
	}
	return timestamp.Uint64(), nil
}

// mustSlotTimestamp returns the timestamp of a slot already checked by slotTimestamp.
func (cs ClientState) mustSlotTimestamp(slot uint64) uint64 {
	timestamp, err := cs.slotTimestamp(slot)
	if err != nil {
		panic(err)
	}
	return timestamp
}

// signatureForkVersion returns the fork version sync committee members sign with at
// signatureSlot. Signatures attest to the block of the previous slot.
func (cs ClientState) signatureForkVersion(signatureSlot uint64) []byte {
	if signatureSlot == 0 {
		signatureSlot = 1
	}
	return cs.ForkParameters.ForkVersion(cs.computeEpoch(signatureSlot - 1))
}
