package types

import (
	"io"

	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/rlp"
	crypto "github.com/tendermint/tendermint/proto/tendermint/crypto"
)

// Marshal encodes the proof as an RLP list of protobuf encoded commitment proofs,
// ordered from leaf to root.
func (proof MerkleProof) Marshal() ([]byte, error) {
	proofs := make([][]byte, len(proof.Proofs))
	for i, p := range proof.Proofs {
		bz, err := p.Marshal()
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof, "failed to encode proof at index %d: %v", i, err)
		}
		proofs[i] = bz
	}
	return rlp.EncodeToBytes(proofs)
}

// UnmarshalMerkleProof decodes a proof encoded by MerkleProof.Marshal.
func UnmarshalMerkleProof(bz []byte) (MerkleProof, error) {
	var proofs [][]byte
	if err := rlp.DecodeBytes(bz, &proofs); err != nil {
		return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "failed to decode proof: %v", err)
	}

	merkleProof := MerkleProof{Proofs: make([]*ics23.CommitmentProof, len(proofs))}
	for i, proofBz := range proofs {
		var p ics23.CommitmentProof
		if err := p.Unmarshal(proofBz); err != nil {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "failed to decode proof at index %d: %v", i, err)
		}
		merkleProof.Proofs[i] = &p
	}
	return merkleProof, nil
}

// ConvertProofs converts crypto.ProofOps into MerkleProof
func ConvertProofs(tmProof *crypto.ProofOps) (MerkleProof, error) {
	if tmProof == nil {
		return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "tendermint proof is nil")
	}
	// Unmarshal all proof ops to CommitmentProof
	proofs := make([]*ics23.CommitmentProof, len(tmProof.Ops))
	for i, op := range tmProof.Ops {
		var p ics23.CommitmentProof
		err := p.Unmarshal(op.Data)
		if err != nil || p.Proof == nil {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not unmarshal proof op into CommitmentProof at index %d: %v", i, err)
		}
		proofs[i] = &p
	}
	return MerkleProof{
		Proofs: proofs,
	}, nil
}

// ProofSpecs is a list of ICS23 proof specs which can be stored as part of an RLP encoded
// client state. Each spec is written as its protobuf encoding.
type ProofSpecs []*ics23.ProofSpec

// EncodeRLP implements rlp.Encoder.
func (specs ProofSpecs) EncodeRLP(w io.Writer) error {
	encoded := make([][]byte, len(specs))
	for i, spec := range specs {
		if spec == nil {
			return sdkerrors.Wrapf(ErrInvalidProof, "proof spec cannot be nil at index: %d", i)
		}
		bz, err := spec.Marshal()
		if err != nil {
			return err
		}
		encoded[i] = bz
	}
	return rlp.Encode(w, encoded)
}

// DecodeRLP implements rlp.Decoder.
func (specs *ProofSpecs) DecodeRLP(s *rlp.Stream) error {
	var encoded [][]byte
	if err := s.Decode(&encoded); err != nil {
		return err
	}
	if len(encoded) == 0 {
		*specs = nil
		return nil
	}

	decoded := make(ProofSpecs, len(encoded))
	for i, bz := range encoded {
		var spec ics23.ProofSpec
		if err := spec.Unmarshal(bz); err != nil {
			return sdkerrors.Wrapf(ErrInvalidProof, "failed to decode proof spec at index %d: %v", i, err)
		}
		decoded[i] = &spec
	}
	*specs = decoded
	return nil
}
