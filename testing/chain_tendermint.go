package ibctesting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmprotoversion "github.com/tendermint/tendermint/proto/tendermint/version"
	tmtypes "github.com/tendermint/tendermint/types"
	tmversion "github.com/tendermint/tendermint/version"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	ibctm "github.com/ComposableFi/light-clients/modules/light-clients/07-tendermint"
)

// UpgradePath is the upgrade path of the test tendermint chains.
var UpgradePath = []string{"upgrade", "upgradedIBCState"}

// StoreName is the name of the application store proven by the test tendermint chains.
const StoreName = "ibc"

// TendermintChain simulates a counterparty tendermint chain: a validator set whose members
// sign headers, and a provable application store whose app hash the headers commit to.
type TendermintChain struct {
	T testing.TB

	ChainID string
	Vals    *tmtypes.ValidatorSet
	Signers []tmtypes.PrivValidator
	Store   *ProvableStore

	// validator set history, the next validator set committed to at each height
	nextVals map[int64]*tmtypes.ValidatorSet
}

// NewTendermintChain creates a chain with numVals validators of equal voting power.
func NewTendermintChain(t testing.TB, chainID string, numVals int) *TendermintChain {
	validators := make([]*tmtypes.Validator, numVals)
	signersByAddress := make(map[string]tmtypes.PrivValidator, numVals)
	for i := 0; i < numVals; i++ {
		privVal := tmtypes.NewMockPV()
		pubKey, err := privVal.GetPubKey()
		require.NoError(t, err)
		validators[i] = tmtypes.NewValidator(pubKey, 1)
		signersByAddress[pubKey.Address().String()] = privVal
	}

	valSet := tmtypes.NewValidatorSet(validators)
	return &TendermintChain{
		T:        t,
		ChainID:  chainID,
		Vals:     valSet,
		Signers:  SignersForValSet(valSet, signersByAddress),
		Store:    NewProvableStore(t, StoreName),
		nextVals: make(map[int64]*tmtypes.ValidatorSet),
	}
}

// SignersForValSet orders the private validators as the validator set orders its members,
// the order MakeCommit expects.
func SignersForValSet(valSet *tmtypes.ValidatorSet, signers map[string]tmtypes.PrivValidator) []tmtypes.PrivValidator {
	ordered := make([]tmtypes.PrivValidator, len(valSet.Validators))
	for i, val := range valSet.Validators {
		ordered[i] = signers[val.Address.String()]
	}
	return ordered
}

// ClientState returns a tendermint client state with the default parameters at latestHeight.
func (chain *TendermintChain) ClientState(latestHeight clienttypes.Height) *ibctm.ClientState {
	return ibctm.NewClientState(
		chain.ChainID, ibctm.DefaultTrustLevel, TrustingPeriod, UnbondingPeriod, MaxClockDrift,
		latestHeight, commitmenttypes.GetSDKSpecs(), UpgradePath,
	)
}

// ConsensusState returns the consensus state the chain produces at timestamp for its current
// app hash and validator set.
func (chain *TendermintChain) ConsensusState(timestamp time.Time) *ibctm.ConsensusState {
	return ibctm.NewConsensusState(timestamp, commitmenttypes.NewMerkleRoot(chain.AppHash()), chain.Vals.Hash())
}

// AppHash returns the app hash of the last commit of the store, committing once if it never was.
func (chain *TendermintChain) AppHash() []byte {
	if chain.Store.lastCommit.Hash == nil {
		return chain.Store.Commit()
	}
	return chain.Store.lastCommit.Hash
}

// CreateHeader creates a header at blockHeight, signed by the chain's validators, trusting
// the consensus state at trustedHeight. The trusted validators are the validator set the
// chain committed to as next validators at trustedHeight.
func (chain *TendermintChain) CreateHeader(blockHeight int64, trustedHeight clienttypes.Height, timestamp time.Time) *ibctm.Header {
	trustedVals, ok := chain.nextVals[int64(trustedHeight.RevisionHeight)]
	if !ok {
		trustedVals = chain.Vals
	}
	header := CreateTMClientHeader(chain.T, chain.ChainID, blockHeight, trustedHeight, timestamp, chain.AppHash(), chain.Vals, chain.Vals, trustedVals, chain.Signers)
	chain.nextVals[blockHeight] = chain.Vals
	return header
}

// CreateTMClientHeader creates a TM header to update the TM client. Args are passed in to allow
// caller flexibility to use params that differ from the chain.
func CreateTMClientHeader(
	t testing.TB, chainID string, blockHeight int64, trustedHeight clienttypes.Height, timestamp time.Time, appHash []byte,
	tmValSet, tmNextValSet, tmTrustedVals *tmtypes.ValidatorSet, signers []tmtypes.PrivValidator,
) *ibctm.Header {
	var (
		valSet      *tmproto.ValidatorSet
		trustedVals *tmproto.ValidatorSet
	)
	require.NotNil(t, tmValSet)

	tmHeader := tmtypes.Header{
		Version:            tmprotoversion.Consensus{Block: tmversion.BlockProtocol, App: 2},
		ChainID:            chainID,
		Height:             blockHeight,
		Time:               timestamp,
		LastBlockID:        MakeBlockID(make([]byte, tmhash.Size), 10_000, make([]byte, tmhash.Size)),
		LastCommitHash:     tmhash.Sum([]byte("last_commit_hash")),
		DataHash:           tmhash.Sum([]byte("data_hash")),
		ValidatorsHash:     tmValSet.Hash(),
		NextValidatorsHash: tmNextValSet.Hash(),
		ConsensusHash:      tmhash.Sum([]byte("consensus_hash")),
		AppHash:            appHash,
		LastResultsHash:    tmhash.Sum([]byte("last_results_hash")),
		EvidenceHash:       tmhash.Sum([]byte("evidence_hash")),
		ProposerAddress:    tmValSet.Proposer.Address,
	}

	hhash := tmHeader.Hash()
	blockID := MakeBlockID(hhash, 3, tmhash.Sum([]byte("part_set")))
	voteSet := tmtypes.NewVoteSet(chainID, blockHeight, 1, tmproto.PrecommitType, tmValSet)

	commit, err := tmtypes.MakeCommit(blockID, blockHeight, 1, voteSet, signers, timestamp)
	require.NoError(t, err)

	signedHeader := &tmproto.SignedHeader{
		Header: tmHeader.ToProto(),
		Commit: commit.ToProto(),
	}

	valSet, err = tmValSet.ToProto()
	require.NoError(t, err)

	if tmTrustedVals != nil {
		trustedVals, err = tmTrustedVals.ToProto()
		require.NoError(t, err)
	}

	// The trusted fields may be nil. They may be filled before relaying messages to a client.
	// The relayer is responsible for querying client and injecting appropriate trusted fields.
	return &ibctm.Header{
		SignedHeader:      signedHeader,
		ValidatorSet:      valSet,
		TrustedHeight:     trustedHeight,
		TrustedValidators: trustedVals,
	}
}

// MakeBlockID copied unimported test functions from tmtypes to use them here
func MakeBlockID(hash []byte, partSetSize uint32, partSetHash []byte) tmtypes.BlockID {
	return tmtypes.BlockID{
		Hash: hash,
		PartSetHeader: tmtypes.PartSetHeader{
			Total: partSetSize,
			Hash:  partSetHash,
		},
	}
}

// CreateSortedSignerArray takes two PrivValidators, and the corresponding Validator structs
// (including voting power). It returns a signer array of PrivValidators that matches the
// sorting of ValidatorSet.
// The sorting is first by .VotingPower (descending), with secondary index of .Address (ascending).
func CreateSortedSignerArray(altPrivVal, suitePrivVal tmtypes.PrivValidator,
	altVal, suiteVal *tmtypes.Validator,
) []tmtypes.PrivValidator {
	switch {
	case altVal.VotingPower > suiteVal.VotingPower:
		return []tmtypes.PrivValidator{altPrivVal, suitePrivVal}
	case altVal.VotingPower < suiteVal.VotingPower:
		return []tmtypes.PrivValidator{suitePrivVal, altPrivVal}
	default:
		if bytes.Compare(altVal.Address, suiteVal.Address) == -1 {
			return []tmtypes.PrivValidator{altPrivVal, suitePrivVal}
		}
		return []tmtypes.PrivValidator{suitePrivVal, altPrivVal}
	}
}
