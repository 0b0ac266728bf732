package types

import (
	"context"
	"time"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Clock = SystemClock{}

// SystemClock reads the wall clock. It reports a zero block height, so block based delay
// periods can only be used with a host supplied clock.
type SystemClock struct{}

// Now implements exported.Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// BlockHeight implements exported.Clock.
func (SystemClock) BlockHeight() uint64 { return 0 }

// TimestampToTime converts a unix nanosecond timestamp into a UTC time.
func TimestampToTime(timestamp uint64) time.Time {
	return time.Unix(0, int64(timestamp)).UTC()
}

// TimeToTimestamp converts t into a unix nanosecond timestamp.
func TimeToTimestamp(t time.Time) uint64 {
	return uint64(t.UnixNano())
}

type signerKey struct{}

// WithSigner returns a context carrying the address of the account submitting the message.
// Families with a relayer allow-list authorize client creation against it.
func WithSigner(ctx context.Context, signer string) context.Context {
	return context.WithValue(ctx, signerKey{}, signer)
}

// SignerFromContext returns the signer set by WithSigner.
func SignerFromContext(ctx context.Context) (string, bool) {
	signer, ok := ctx.Value(signerKey{}).(string)
	return signer, ok && signer != ""
}
