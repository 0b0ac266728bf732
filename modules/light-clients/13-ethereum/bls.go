//go:build !blst

package ethereum

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// fastAggregateVerify checks that sig is the aggregate signature of msg by every holder of
// pubkeys: e(sum(pubkeys), H(msg)) = e(G1, sig). Points must be compressed and in the prime
// order subgroups.
func fastAggregateVerify(pubkeys [][]byte, msg, sig []byte) bool {
	if len(pubkeys) == 0 {
		return false
	}

	var aggregate bls12381.G1Jac
	for i, bz := range pubkeys {
		var pk bls12381.G1Affine
		if n, err := pk.SetBytes(bz); err != nil || n != PubkeySize || pk.IsInfinity() {
			return false
		}
		if i == 0 {
			aggregate.FromAffine(&pk)
			continue
		}
		aggregate.AddMixed(&pk)
	}

	var signature bls12381.G2Affine
	if n, err := signature.SetBytes(sig); err != nil || n != SignatureSize {
		return false
	}

	hm, err := bls12381.HashToG2(msg, signatureDST)
	if err != nil {
		return false
	}

	var aggregatePk, negG1 bls12381.G1Affine
	aggregatePk.FromJacobian(&aggregate)
	_, _, g1, _ := bls12381.Generators()
	negG1.Neg(&g1)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{aggregatePk, negG1},
		[]bls12381.G2Affine{hm, signature},
	)
	return err == nil && ok
}
