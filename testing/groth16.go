package ibctesting

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	zktm "github.com/ComposableFi/light-clients/modules/light-clients/12-zktendermint"
)

// Groth16Setup is a single public input Groth16 verifying key generated from a known trapdoor.
// Knowing the trapdoor, tests can produce a proof accepted for any public input without a
// circuit or a prover.
type Groth16Setup struct {
	alpha, beta, gamma, delta fr.Element
	k0, k1                    fr.Element

	VerifyingKey *zktm.VerifyingKey
}

// NewGroth16Setup derives a setup from seed. Different seeds give unrelated keys.
func NewGroth16Setup(seed uint64) *Groth16Setup {
	s := &Groth16Setup{}
	for i, e := range []*fr.Element{&s.alpha, &s.beta, &s.gamma, &s.delta, &s.k0, &s.k1} {
		e.SetUint64(seed*1000 + uint64(i) + 2)
	}

	s.VerifyingKey = &zktm.VerifyingKey{
		Alpha: g1Mul(&s.alpha),
		Beta:  g2Mul(&s.beta),
		Gamma: g2Mul(&s.gamma),
		Delta: g2Mul(&s.delta),
		K:     [2]bn254.G1Affine{g1Mul(&s.k0), g1Mul(&s.k1)},
	}
	return s
}

// VerifyingKeyBytes returns the encoded verifying key.
func (s *Groth16Setup) VerifyingKeyBytes() []byte {
	return s.VerifyingKey.Bytes()
}

// Prove returns an encoded proof accepted for the public input x: with A = r*G1, B = s*G2 it
// picks C = c*G1 where c*delta = r*s - alpha*beta - (k0 + x*k1)*gamma.
func (s *Groth16Setup) Prove(x fr.Element) []byte {
	var r, sc fr.Element
	r.SetUint64(7)
	sc.SetUint64(11)

	var l, rs, ab, lg, c, deltaInv fr.Element
	l.Mul(&x, &s.k1)
	l.Add(&l, &s.k0)
	rs.Mul(&r, &sc)
	ab.Mul(&s.alpha, &s.beta)
	lg.Mul(&l, &s.gamma)
	c.Sub(&rs, &ab)
	c.Sub(&c, &lg)
	deltaInv.Inverse(&s.delta)
	c.Mul(&c, &deltaInv)

	proof := zktm.Groth16Proof{
		A: g1Mul(&r),
		B: g2Mul(&sc),
		C: g1Mul(&c),
	}
	return proof.Bytes()
}

// ProveHeader sets the proof of header against the trusted consensus state.
func (s *Groth16Setup) ProveHeader(chainID string, trusted *zktm.ConsensusState, header *zktm.Header) *zktm.Header {
	header.Proof = s.Prove(header.PublicInput(chainID, trusted).Element())
	return header
}

func g1Mul(e *fr.Element) bn254.G1Affine {
	_, _, g1, _ := bn254.Generators()
	var p bn254.G1Affine
	p.ScalarMultiplication(&g1, e.BigInt(new(big.Int)))
	return p
}

func g2Mul(e *fr.Element) bn254.G2Affine {
	_, _, _, g2 := bn254.Generators()
	var p bn254.G2Affine
	p.ScalarMultiplication(&g2, e.BigInt(new(big.Int)))
	return p
}
