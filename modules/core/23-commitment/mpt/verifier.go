package mpt

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var (
	_ exported.Path               = (*Path)(nil)
	_ exported.CommitmentVerifier = (*Verifier)(nil)
)

// Path is the raw key of a commitment kept by a contract in a bytes32 => bytes32 mapping.
type Path struct {
	Key []byte
}

// NewPath returns the commitment path of key.
func NewPath(key []byte) Path {
	return Path{Key: key}
}

// String implements exported.Path.
func (p Path) String() string {
	return string(p.Key)
}

// Empty implements exported.Path.
func (p Path) Empty() bool {
	return len(p.Key) == 0
}

// StateProof proves one storage slot of a contract from a block state root: the account proof
// of the contract followed by the storage proof of the slot.
type StateProof struct {
	AccountProof Proof
	StorageProof Proof
}

// Encode returns the RLP encoding of the proof.
func (p StateProof) Encode() []byte {
	bz, err := rlp.EncodeToBytes(p)
	if err != nil {
		panic(err)
	}
	return bz
}

// DecodeStateProof decodes an RLP encoded StateProof.
func DecodeStateProof(bz []byte) (StateProof, error) {
	var proof StateProof
	if err := rlp.DecodeBytes(bz, &proof); err != nil {
		return StateProof{}, sdkerrors.Wrapf(ErrInvalidProof, "failed to decode state proof: %v", err)
	}
	return proof, nil
}

// Verifier checks commitments stored by the contract at Address. A value committed under a
// path is stored as keccak256(value) in the mapping at CommitmentsSlot, keyed by
// keccak256(path). Roots handed to the verifier are block state roots.
type Verifier struct {
	Address         common.Address
	CommitmentsSlot common.Hash
}

// NewVerifier returns a Verifier for the commitment mapping of a contract.
func NewVerifier(address common.Address, commitmentsSlot common.Hash) Verifier {
	return Verifier{
		Address:         address,
		CommitmentsSlot: commitmentsSlot,
	}
}

// CommitmentSlot returns the storage slot holding the commitment of path.
func (v Verifier) CommitmentSlot(path Path) common.Hash {
	return MappingSlot(crypto.Keccak256(path.Key), v.CommitmentsSlot)
}

// VerifyMembership implements exported.CommitmentVerifier.
func (v Verifier) VerifyMembership(root []byte, path exported.Path, value []byte, proof []byte) error {
	if len(value) == 0 {
		return sdkerrors.Wrap(ErrValueMismatch, "empty value in membership proof")
	}
	return v.verify(root, path, crypto.Keccak256Hash(value), proof)
}

// VerifyNonMembership implements exported.CommitmentVerifier. An unset slot reads as zero.
func (v Verifier) VerifyNonMembership(root []byte, path exported.Path, proof []byte) error {
	return v.verify(root, path, common.Hash{}, proof)
}

func (v Verifier) verify(root []byte, path exported.Path, word common.Hash, proof []byte) error {
	if len(root) != common.HashLength {
		return sdkerrors.Wrapf(ErrInvalidProof, "state root must be %d bytes, got %d", common.HashLength, len(root))
	}

	mptPath, ok := path.(Path)
	if !ok {
		return sdkerrors.Wrapf(ErrInvalidPath, "expected %T, got %T", Path{}, path)
	}
	if mptPath.Empty() {
		return sdkerrors.Wrap(ErrInvalidPath, "path cannot be empty")
	}

	stateProof, err := DecodeStateProof(proof)
	if err != nil {
		return err
	}

	storageRoot, err := AccountStorageRoot(common.BytesToHash(root), v.Address, stateProof.AccountProof)
	if err != nil {
		return err
	}

	return VerifyStorageProof(storageRoot, v.CommitmentSlot(mptPath), word, stateProof.StorageProof)
}
