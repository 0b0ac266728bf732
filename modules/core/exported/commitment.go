package exported

// Path implements spec-agnostic commitment path.
type Path interface {
	String() string
	Empty() bool
}

// Prefix implements spec-agnostic commitment prefix.
type Prefix interface {
	Bytes() []byte
	Empty() bool
}

// CommitmentVerifier is the contract shared by the commitment proof backends. A nil error from
// VerifyMembership proves that value is committed under path; a nil error from VerifyNonMembership
// proves that nothing is committed under path. Any proof that fails to verify, whatever the reason,
// returns an error.
type CommitmentVerifier interface {
	VerifyMembership(root []byte, path Path, value []byte, proof []byte) error
	VerifyNonMembership(root []byte, path Path, proof []byte) error
}
