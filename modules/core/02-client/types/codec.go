package types

import (
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
)

// Marshal encodes v with RLP.
func Marshal(v interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(v)
}

// MustMarshal encodes v with RLP. Client and consensus states are plain structs of
// byte strings and unsigned integers, so a failure is a programming error.
func MustMarshal(v interface{}) []byte {
	bz, err := Marshal(v)
	if err != nil {
		panic(fmt.Errorf("failed to encode %T: %w", v, err))
	}
	return bz
}

// Unmarshal decodes RLP encoded bz into v.
func Unmarshal(bz []byte, v interface{}) error {
	return rlp.DecodeBytes(bz, v)
}

// MustUnmarshal decodes RLP encoded bz into v and panics on failure. It is only used on
// values this module wrote itself.
func MustUnmarshal(bz []byte, v interface{}) {
	if err := Unmarshal(bz, v); err != nil {
		panic(fmt.Errorf("failed to decode %T: %w", v, err))
	}
}

// Duration is a time.Duration persisted as an unsigned number of nanoseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// EncodeRLP implements rlp.Encoder.
func (d Duration) EncodeRLP(w io.Writer) error {
	if d < 0 {
		return fmt.Errorf("cannot encode negative duration %s", time.Duration(d))
	}
	return rlp.Encode(w, uint64(d))
}

// DecodeRLP implements rlp.Decoder.
func (d *Duration) DecodeRLP(s *rlp.Stream) error {
	v, err := s.Uint()
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
