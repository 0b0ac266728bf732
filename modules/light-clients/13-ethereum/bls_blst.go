//go:build blst

package ethereum

import (
	blst "github.com/supranational/blst/bindings/go"
)

// fastAggregateVerify checks that sig is the aggregate signature of msg by every holder of
// pubkeys, with the blst library.
func fastAggregateVerify(pubkeys [][]byte, msg, sig []byte) bool {
	if len(pubkeys) == 0 || len(sig) != SignatureSize {
		return false
	}

	signature := new(blst.P2Affine).Uncompress(sig)
	if signature == nil {
		return false
	}

	pks := make([]*blst.P1Affine, len(pubkeys))
	for i, bz := range pubkeys {
		if len(bz) != PubkeySize {
			return false
		}
		pks[i] = new(blst.P1Affine).Uncompress(bz)
		if pks[i] == nil || !pks[i].KeyValidate() {
			return false
		}
	}

	return signature.FastAggregateVerify(true, pks, msg, signatureDST)
}
