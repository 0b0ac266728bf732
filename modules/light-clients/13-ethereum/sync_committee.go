package ethereum

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// signatureDST is the hash to curve domain separation tag of beacon chain BLS signatures.
var signatureDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// SyncAggregate is the aggregate signature of the participating sync committee members.
type SyncAggregate struct {
	SyncCommitteeBits      bitfield.Bitvector512
	SyncCommitteeSignature []byte
}

// ValidateBasic checks the sizes of the participation bits and of the signature.
func (sa SyncAggregate) ValidateBasic() error {
	if len(sa.SyncCommitteeBits) != SyncCommitteeSize/8 {
		return sdkerrors.Wrapf(ErrInvalidHeader, "sync committee bits must be %d bytes, got %d", SyncCommitteeSize/8, len(sa.SyncCommitteeBits))
	}
	if len(sa.SyncCommitteeSignature) != SignatureSize {
		return sdkerrors.Wrapf(ErrInvalidHeader, "sync committee signature must be %d bytes, got %d", SignatureSize, len(sa.SyncCommitteeSignature))
	}
	return nil
}

// Participants returns the number of committee members who signed.
func (sa SyncAggregate) Participants() uint64 {
	return sa.SyncCommitteeBits.Count()
}

// HasSupermajority reports whether at least two thirds of the committee signed. Members are
// counted by bit, not by stake.
func (sa SyncAggregate) HasSupermajority() bool {
	return sa.Participants()*3 >= SyncCommitteeSize*2
}

// ValidateBasic checks that the committee has the expected number of members and that every
// key has the size of a compressed point. Points are decoded during signature verification.
func (c SyncCommittee) ValidateBasic() error {
	if len(c.Pubkeys) != SyncCommitteeSize {
		return sdkerrors.Wrapf(ErrInvalidSyncCommittee, "expected %d public keys, got %d", SyncCommitteeSize, len(c.Pubkeys))
	}
	for i, pk := range c.Pubkeys {
		if len(pk) != PubkeySize {
			return sdkerrors.Wrapf(ErrInvalidSyncCommittee, "public key %d must be %d bytes, got %d", i, PubkeySize, len(pk))
		}
	}
	if len(c.AggregatePubkey) != PubkeySize {
		return sdkerrors.Wrapf(ErrInvalidSyncCommittee, "aggregate public key must be %d bytes, got %d", PubkeySize, len(c.AggregatePubkey))
	}
	return nil
}

// verifySyncAggregate checks the participation of the committee and its aggregate signature
// over signingRoot. Both failures are reported alike.
func verifySyncAggregate(committee SyncCommittee, aggregate SyncAggregate, signingRoot [RootSize]byte) error {
	if !aggregate.HasSupermajority() {
		return sdkerrors.Wrapf(ErrInvalidUpdateProof, "sync committee participation %d/%d is below two thirds", aggregate.Participants(), SyncCommitteeSize)
	}

	pubkeys := make([][]byte, 0, aggregate.Participants())
	for i := 0; i < SyncCommitteeSize; i++ {
		if aggregate.SyncCommitteeBits.BitAt(uint64(i)) {
			pubkeys = append(pubkeys, committee.Pubkeys[i])
		}
	}

	if !fastAggregateVerify(pubkeys, signingRoot[:], aggregate.SyncCommitteeSignature) {
		return sdkerrors.Wrap(ErrInvalidUpdateProof, "invalid sync committee signature")
	}
	return nil
}
