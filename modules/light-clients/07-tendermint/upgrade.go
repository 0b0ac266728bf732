package tendermint

import (
	"fmt"
	"time"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/light-clients/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/light-clients/modules/core/23-commitment/types"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	"github.com/ComposableFi/light-clients/modules/core/exported"
)

// VerifyUpgradeAndUpdateState checks if the upgraded client has been committed by the current client
// It will zero out all client-specific fields and verify all data in client state that must
// be the same across all valid Tendermint clients for the new chain.
// Note, if there is a decrease in the UnbondingPeriod, then the TrustingPeriod, despite being a client-specific field
// is scaled down by the same ratio.
// VerifyUpgrade will return an error if:
// - the upgradedClient is not a Tendermint ClientState
// - the latest height of the client state does not have the same revision number or has a greater
// height than the committed client.
//   - the height of upgraded client is not greater than that of current client
//   - the latest height of the new client does not match or is greater than the height in committed client
//   - any Tendermint chain specified parameter in upgraded client such as ChainID, UnbondingPeriod,
//     and ProofSpecs do not match parameters set by committed client
func (cs ClientState) VerifyUpgradeAndUpdateState(
	clientStore storetypes.KVStore, clock exported.Clock,
	upgradedClient exported.ClientState, upgradedConsState exported.ConsensusState,
	upgradeClientProof, upgradeConsStateProof []byte,
) error {
	if !cs.FrozenHeight.IsZero() {
		return sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client frozen at height %s", cs.FrozenHeight)
	}

	if len(cs.UpgradePath) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidUpgradeClient, "cannot upgrade client, no upgrade path set")
	}

	// upgraded client state and consensus state must be IBC tendermint client state and consensus state
	// this may be modified in the future to upgrade to a new IBC tendermint type
	// counterparty must also commit to the upgraded consensus state at a sub-path under the upgrade path specified
	tmUpgradeClient, ok := upgradedClient.(*ClientState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "upgraded client must be Tendermint client. expected: %T got: %T",
			&ClientState{}, upgradedClient)
	}

	tmUpgradeConsState, ok := upgradedConsState.(*ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "upgraded consensus state must be Tendermint consensus state. expected %T, got: %T",
			&ConsensusState{}, upgradedConsState)
	}

	// unmarshal proofs
	merkleProofClient, err := commitmenttypes.UnmarshalMerkleProof(upgradeClientProof)
	if err != nil {
		return sdkerrors.Wrapf(commitmenttypes.ErrInvalidProof, "could not unmarshal client merkle proof: %v", err)
	}
	merkleProofConsState, err := commitmenttypes.UnmarshalMerkleProof(upgradeConsStateProof)
	if err != nil {
		return sdkerrors.Wrapf(commitmenttypes.ErrInvalidProof, "could not unmarshal consensus state merkle proof: %v", err)
	}

	// last height of current counterparty chain must be client's latest height
	lastHeight := cs.LatestHeight

	// Must prove against latest consensus state to ensure we are verifying against latest upgrade plan
	// This verifies that upgrade is intended for the provided revision, since committed client must exist
	// at this consensus state
	consState, found := GetConsensusState(clientStore, lastHeight)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "could not retrieve consensus state for lastHeight")
	}

	if cs.IsExpired(consState.GetTime(), clock.Now()) {
		return sdkerrors.Wrap(clienttypes.ErrInvalidClient, "cannot upgrade an expired client")
	}

	// Verify client proof
	bz, err := clienttypes.Marshal(tmUpgradeClient.ZeroCustomFields())
	if err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "could not marshal client state: %v", err)
	}
	// construct clientState Merkle path
	upgradeClientPath := constructUpgradeClientMerklePath(cs.UpgradePath, lastHeight)
	if err := merkleProofClient.VerifyMembership(cs.ProofSpecs, consState.Root, upgradeClientPath, bz); err != nil {
		return sdkerrors.Wrapf(err, "client state proof failed. Path: %s", upgradeClientPath.Pretty())
	}

	// Verify consensus state proof
	bz, err = clienttypes.Marshal(tmUpgradeConsState)
	if err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "could not marshal consensus state: %v", err)
	}
	// construct consensus state Merkle path
	upgradeConsStatePath := constructUpgradeConsStateMerklePath(cs.UpgradePath, lastHeight)
	if err := merkleProofConsState.VerifyMembership(cs.ProofSpecs, consState.Root, upgradeConsStatePath, bz); err != nil {
		return sdkerrors.Wrapf(err, "consensus state proof failed. Path: %s", upgradeConsStatePath.Pretty())
	}

	trustingPeriod := cs.TrustingPeriod.Std()
	if tmUpgradeClient.UnbondingPeriod < cs.UnbondingPeriod {
		trustingPeriod = calculateNewTrustingPeriod(trustingPeriod, cs.UnbondingPeriod.Std(), tmUpgradeClient.UnbondingPeriod.Std())
	}

	// Construct new client state and consensus state
	// Relayer chosen client parameters are ignored.
	// All chain-chosen parameters come from committed client, all client-chosen parameters
	// come from current client.
	newClientState := NewClientState(
		tmUpgradeClient.ChainID, cs.TrustLevel, trustingPeriod, tmUpgradeClient.UnbondingPeriod.Std(),
		cs.MaxClockDrift.Std(), tmUpgradeClient.LatestHeight, tmUpgradeClient.ProofSpecs, tmUpgradeClient.UpgradePath,
	)

	if err := newClientState.Validate(); err != nil {
		return sdkerrors.Wrap(err, "updated client state failed basic validation")
	}

	// The new consensus state is merely used as a trusted kernel against which headers on the new
	// chain can be verified. The root is just a stand-in sentinel value as it cannot be known in advance, thus no proof verification will pass.
	// The timestamp and the NextValidatorsHash of the consensus state is the blocktime and NextValidatorsHash
	// of the last block committed by the old chain. This will allow the first block of the new chain to be verified against
	// the last validators of the old chain so long as it is submitted within the TrustingPeriod of this client.
	newConsState := NewConsensusState(
		tmUpgradeConsState.GetTime(), commitmenttypes.NewMerkleRoot([]byte(SentinelRoot)), tmUpgradeConsState.NextValidatorsHash,
	)

	setClientState(clientStore, newClientState)
	setConsensusState(clientStore, clock, newConsState, newClientState.LatestHeight)

	return nil
}

// construct MerklePath for the committed client from upgradePath
func constructUpgradeClientMerklePath(upgradePath []string, lastHeight exported.Height) commitmenttypes.MerklePath {
	return constructUpgradeMerklePath(upgradePath, lastHeight, host.KeyUpgradedClient)
}

// construct MerklePath for the committed consensus state from upgradePath
func constructUpgradeConsStateMerklePath(upgradePath []string, lastHeight exported.Height) commitmenttypes.MerklePath {
	return constructUpgradeMerklePath(upgradePath, lastHeight, host.KeyUpgradedConsState)
}

func constructUpgradeMerklePath(upgradePath []string, lastHeight exported.Height, suffix string) commitmenttypes.MerklePath {
	// copy all elements from upgradePath except final element
	path := make([]string, len(upgradePath)-1)
	copy(path, upgradePath)

	// append lastHeight and the suffix to last key of upgradePath and use as lastKey of the path
	// this will create the IAVL key that is used to store the state in upgrade store
	lastKey := upgradePath[len(upgradePath)-1]
	appendedKey := fmt.Sprintf("%s/%d/%s", lastKey, lastHeight.GetRevisionHeight(), suffix)

	path = append(path, appendedKey)

	var key [][]byte
	for _, part := range path {
		key = append(key, []byte(part))
	}

	return commitmenttypes.NewMerklePath(key...)
}

// calculateNewTrustingPeriod converts the provided durations to decimal representation to avoid floating-point precision issues
// and calculates the new trusting period, decreasing it by the ratio between the original and new unbonding period.
func calculateNewTrustingPeriod(trustingPeriod, originalUnbonding, newUnbonding time.Duration) time.Duration {
	origUnbondingDec := sdk.NewDec(originalUnbonding.Nanoseconds())
	newUnbondingDec := sdk.NewDec(newUnbonding.Nanoseconds())
	trustingPeriodDec := sdk.NewDec(trustingPeriod.Nanoseconds())

	// compute new trusting period: trustingPeriod * newUnbonding / originalUnbonding
	newTrustingPeriodDec := trustingPeriodDec.Mul(newUnbondingDec).Quo(origUnbondingDec)
	return time.Duration(newTrustingPeriodDec.TruncateInt64())
}
