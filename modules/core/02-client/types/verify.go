package types

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// HeaderPreconditions holds what every family checks about a header before running any
// cryptographic verification.
type HeaderPreconditions struct {
	TrustedHeight  exported.Height
	TrustedState   exported.ConsensusState
	Height         exported.Height
	Timestamp      time.Time
	TrustingPeriod time.Duration
	MaxClockDrift  time.Duration
}

// Check returns the first violated precondition, in order: the trusted consensus state must
// exist, the header must stay within the trusted revision, its height and timestamp must
// be strictly more recent than the trusted ones, its timestamp must not be beyond now plus the
// max clock drift, and the trusted consensus state must be within its trusting period.
func (p HeaderPreconditions) Check(now time.Time) error {
	if p.TrustedState == nil {
		return sdkerrors.Wrapf(ErrConsensusStateNotFound, "trusted consensus state not found at height %s", p.TrustedHeight)
	}

	if p.Height.GetRevisionNumber() != p.TrustedHeight.GetRevisionNumber() {
		return sdkerrors.Wrapf(
			ErrRevisionNumberMismatch,
			"header height revision %d does not match trusted header revision %d",
			p.Height.GetRevisionNumber(), p.TrustedHeight.GetRevisionNumber(),
		)
	}

	if p.Height.LTE(p.TrustedHeight) {
		return sdkerrors.Wrapf(
			ErrSignedHeaderHeightMustBeMoreRecent,
			"header height %s must be greater than trusted height %s", p.Height, p.TrustedHeight,
		)
	}

	trustedTime := TimestampToTime(p.TrustedState.GetTimestamp())
	if !p.Timestamp.After(trustedTime) {
		return sdkerrors.Wrapf(
			ErrSignedHeaderTimestampMustBeMoreRecent,
			"header timestamp %s must be greater than trusted timestamp %s", p.Timestamp, trustedTime,
		)
	}

	if maxTime := now.Add(p.MaxClockDrift); p.Timestamp.After(maxTime) {
		return sdkerrors.Wrapf(
			ErrSignedHeaderCannotExceedMaxClockDrift,
			"header timestamp %s is after now %s plus max clock drift %s", p.Timestamp, now, p.MaxClockDrift,
		)
	}

	if IsExpired(p.TrustedState.GetTimestamp(), p.TrustingPeriod, now) {
		return sdkerrors.Wrapf(
			ErrTrustingPeriodExpired,
			"trusted consensus state at height %s with timestamp %s expired after %s", p.TrustedHeight, trustedTime, p.TrustingPeriod,
		)
	}

	return nil
}
