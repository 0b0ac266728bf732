package types

import (
	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.CommitmentVerifier = (*Verifier)(nil)

// Verifier checks chained ICS23 proofs against an application hash. Paths are resolved
// under Prefix, the name of the store holding the committed values.
type Verifier struct {
	Specs  []*ics23.ProofSpec
	Prefix MerklePrefix
}

// NewVerifier returns a Verifier for paths under the store named by prefix.
func NewVerifier(specs []*ics23.ProofSpec, prefix MerklePrefix) Verifier {
	return Verifier{
		Specs:  specs,
		Prefix: prefix,
	}
}

// VerifyMembership implements exported.CommitmentVerifier.
func (v Verifier) VerifyMembership(root []byte, path exported.Path, value []byte, proof []byte) error {
	merkleProof, merklePath, err := v.resolve(path, proof)
	if err != nil {
		return err
	}
	return merkleProof.VerifyMembership(v.Specs, NewMerkleRoot(root), merklePath, value)
}

// VerifyNonMembership implements exported.CommitmentVerifier.
func (v Verifier) VerifyNonMembership(root []byte, path exported.Path, proof []byte) error {
	merkleProof, merklePath, err := v.resolve(path, proof)
	if err != nil {
		return err
	}
	return merkleProof.VerifyNonMembership(v.Specs, NewMerkleRoot(root), merklePath)
}

func (v Verifier) resolve(path exported.Path, proof []byte) (MerkleProof, MerklePath, error) {
	merklePath, ok := path.(MerklePath)
	if !ok {
		return MerkleProof{}, MerklePath{}, sdkerrors.Wrapf(ErrInvalidProof, "expected %T, got %T", MerklePath{}, path)
	}

	merklePath, err := ApplyPrefix(v.Prefix, merklePath)
	if err != nil {
		return MerkleProof{}, MerklePath{}, err
	}

	if err := merklePath.ValidateAsPath(); err != nil {
		return MerkleProof{}, MerklePath{}, sdkerrors.Wrap(ErrInvalidProof, err.Error())
	}

	merkleProof, err := UnmarshalMerkleProof(proof)
	if err != nil {
		return MerkleProof{}, MerklePath{}, err
	}
	return merkleProof, merklePath, nil
}
