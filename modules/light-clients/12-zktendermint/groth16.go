package zktendermint

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	lru "github.com/hashicorp/golang-lru"
	"github.com/minio/sha256-simd"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
)

const (
	g1Size = bn254.SizeOfG1AffineUncompressed
	g2Size = bn254.SizeOfG2AffineUncompressed

	// ProofSize is the size of an encoded proof: A (G1) | B (G2) | C (G1), uncompressed.
	ProofSize = 2*g1Size + g2Size
	// VerifyingKeySize is the size of an encoded verifying key:
	// Alpha (G1) | Beta (G2) | Gamma (G2) | Delta (G2) | K0 (G1) | K1 (G1), uncompressed.
	VerifyingKeySize = 3*g1Size + 3*g2Size

	// HashSize is the size of the hashes committed to by the public input.
	HashSize = sha256.Size

	// publicInputDomain separates the header digest from any other use of the circuit hash.
	publicInputDomain = "zktendermint/header/v1"

	verifyingKeyCacheSize = 16
)

// decoded verifying keys are shared process wide, keyed by the digest of their encoding
var verifyingKeys = mustNewCache(verifyingKeyCacheSize)

func mustNewCache(size int) *lru.Cache {
	cache, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return cache
}

// VerifyingKey is a Groth16 verifying key of a circuit with a single public input.
type VerifyingKey struct {
	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	// K[0] is the constant term, K[1] the coefficient of the public input
	K [2]bn254.G1Affine
}

// Bytes returns the uncompressed encoding of the verifying key.
func (vk *VerifyingKey) Bytes() []byte {
	bz := make([]byte, 0, VerifyingKeySize)
	alpha := vk.Alpha.RawBytes()
	beta := vk.Beta.RawBytes()
	gamma := vk.Gamma.RawBytes()
	delta := vk.Delta.RawBytes()
	k0 := vk.K[0].RawBytes()
	k1 := vk.K[1].RawBytes()

	bz = append(bz, alpha[:]...)
	bz = append(bz, beta[:]...)
	bz = append(bz, gamma[:]...)
	bz = append(bz, delta[:]...)
	bz = append(bz, k0[:]...)
	return append(bz, k1[:]...)
}

// DecodeVerifyingKey decodes an uncompressed verifying key. Every point is checked to be on
// the curve and in the prime order subgroup.
func DecodeVerifyingKey(bz []byte) (*VerifyingKey, error) {
	if len(bz) != VerifyingKeySize {
		return nil, sdkerrors.Wrapf(ErrInvalidVerifyingKey, "expected %d bytes, got %d", VerifyingKeySize, len(bz))
	}

	var vk VerifyingKey
	r := pointReader{bz: bz}
	r.g1(&vk.Alpha)
	r.g2(&vk.Beta)
	r.g2(&vk.Gamma)
	r.g2(&vk.Delta)
	r.g1(&vk.K[0])
	r.g1(&vk.K[1])
	if r.err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidVerifyingKey, r.err.Error())
	}
	return &vk, nil
}

// CachedVerifyingKey returns the decoded verifying key, decoding it on first use.
func CachedVerifyingKey(bz []byte) (*VerifyingKey, error) {
	key := sha256.Sum256(bz)
	if vk, ok := verifyingKeys.Get(key); ok {
		return vk.(*VerifyingKey), nil
	}

	vk, err := DecodeVerifyingKey(bz)
	if err != nil {
		return nil, err
	}
	verifyingKeys.Add(key, vk)
	return vk, nil
}

// Groth16Proof is a Groth16 proof.
type Groth16Proof struct {
	A bn254.G1Affine
	B bn254.G2Affine
	C bn254.G1Affine
}

// Bytes returns the uncompressed encoding of the proof.
func (p *Groth16Proof) Bytes() []byte {
	a := p.A.RawBytes()
	b := p.B.RawBytes()
	c := p.C.RawBytes()

	bz := make([]byte, 0, ProofSize)
	bz = append(bz, a[:]...)
	bz = append(bz, b[:]...)
	return append(bz, c[:]...)
}

// DecodeGroth16Proof decodes an uncompressed proof.
func DecodeGroth16Proof(bz []byte) (*Groth16Proof, error) {
	if len(bz) != ProofSize {
		return nil, sdkerrors.Wrapf(ErrInvalidZKP, "expected %d bytes, got %d", ProofSize, len(bz))
	}

	var proof Groth16Proof
	r := pointReader{bz: bz}
	r.g1(&proof.A)
	r.g2(&proof.B)
	r.g1(&proof.C)
	if r.err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidZKP, r.err.Error())
	}
	return &proof, nil
}

// Verify checks e(A, B) = e(Alpha, Beta) * e(K0 + x*K1, Gamma) * e(C, Delta) for the public
// input x, as a single multi pairing.
func (vk *VerifyingKey) Verify(proof *Groth16Proof, input fr.Element) bool {
	var x big.Int
	input.BigInt(&x)

	var l bn254.G1Affine
	l.ScalarMultiplication(&vk.K[1], &x)
	l.Add(&l, &vk.K[0])

	var negAlpha, negL, negC bn254.G1Affine
	negAlpha.Neg(&vk.Alpha)
	negL.Neg(&l)
	negC.Neg(&proof.C)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{proof.A, negAlpha, negL, negC},
		[]bn254.G2Affine{proof.B, vk.Beta, vk.Gamma, vk.Delta},
	)
	return err == nil && ok
}

// PublicInput is what a header proof attests to: the client's chain moved from the trusted
// consensus state, identified by its height and next validators hash, to the header.
type PublicInput struct {
	ChainID                   string
	TrustedHeight             clienttypes.Height
	TrustedNextValidatorsHash []byte
	Height                    clienttypes.Height
	Timestamp                 uint64
	NextValidatorsHash        []byte
	AppHash                   []byte
}

// Digest returns the sha256 digest of the domain separated encoding of the input.
func (in PublicInput) Digest() [HashSize]byte {
	h := sha256.New()
	h.Write([]byte(publicInputDomain))

	var word [8]byte
	writeUint64 := func(v uint64) {
		binary.BigEndian.PutUint64(word[:], v)
		h.Write(word[:])
	}
	writeUint64(uint64(len(in.ChainID)))
	h.Write([]byte(in.ChainID))
	writeUint64(in.TrustedHeight.RevisionNumber)
	writeUint64(in.TrustedHeight.RevisionHeight)
	h.Write(in.TrustedNextValidatorsHash)
	writeUint64(in.Height.RevisionNumber)
	writeUint64(in.Height.RevisionHeight)
	writeUint64(in.Timestamp)
	h.Write(in.NextValidatorsHash)
	h.Write(in.AppHash)

	var digest [HashSize]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// Element folds the digest into the scalar field. The circuit reads the digest in reverse byte
// order and drops its most significant byte, so that the value is below the field modulus.
func (in PublicInput) Element() fr.Element {
	digest := in.Digest()
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	digest[0] = 0

	var x fr.Element
	x.SetBytes(digest[:])
	return x
}

// pointReader decodes consecutive uncompressed points, keeping the first error.
type pointReader struct {
	bz  []byte
	err error
}

func (r *pointReader) g1(p *bn254.G1Affine) {
	if r.err != nil {
		return
	}
	r.err = readPoint(p.SetBytes, r.bz[:g1Size], g1Size)
	r.bz = r.bz[g1Size:]
}

func (r *pointReader) g2(p *bn254.G2Affine) {
	if r.err != nil {
		return
	}
	r.err = readPoint(p.SetBytes, r.bz[:g2Size], g2Size)
	r.bz = r.bz[g2Size:]
}

// readPoint rejects compressed encodings, which would only consume part of the buffer.
func readPoint(setBytes func([]byte) (int, error), bz []byte, size int) error {
	n, err := setBytes(bz)
	if err != nil {
		return err
	}
	if n != size {
		return sdkerrors.Wrapf(ErrInvalidZKP, "expected uncompressed point of %d bytes, read %d", size, n)
	}
	return nil
}
