package keeper

import (
	"sync"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/ComposableFi/light-clients/modules/core/02-client/types"
	host "github.com/ComposableFi/light-clients/modules/core/24-host"
	"github.com/ComposableFi/light-clients/modules/core/exported"
	ibctm "github.com/ComposableFi/light-clients/modules/light-clients/07-tendermint"
	zktm "github.com/ComposableFi/light-clients/modules/light-clients/12-zktendermint"
	ethereum "github.com/ComposableFi/light-clients/modules/light-clients/13-ethereum"
	arbitrum "github.com/ComposableFi/light-clients/modules/light-clients/15-arbitrum"
)

// Keeper represents a type that grants read and write permissions to any client
// state information
type Keeper struct {
	store         storetypes.KVStore
	storeProvider types.StoreProvider
	router        *types.Router
	params        types.Params
	clock         exported.Clock
	logger        log.Logger

	// clientID -> *sync.RWMutex
	locks sync.Map
	// serializes client creation, which reads and advances the client sequence
	seqMtx sync.Mutex
}

// NewKeeper creates a new client Keeper over the given root store. The router holds exactly the
// tendermint, zk-tendermint, ethereum and arbitrum light client modules. A nil clock reads the
// wall clock.
func NewKeeper(store storetypes.KVStore, clock exported.Clock, params types.Params, logger log.Logger) (*Keeper, error) {
	if err := params.Validate(); err != nil {
		return nil, sdkerrors.Wrap(err, "invalid client params")
	}
	if clock == nil {
		clock = types.SystemClock{}
	}

	storeProvider := types.NewStoreProvider(store)
	k := &Keeper{
		store:         store,
		storeProvider: storeProvider,
		params:        params,
		clock:         clock,
		logger:        logger.With("module", types.ModuleName),
	}

	router := types.NewRouter()
	router.AddRoute(exported.Tendermint, ibctm.NewLightClientModule(storeProvider, clock))
	router.AddRoute(exported.ZKTendermint, zktm.NewLightClientModule(storeProvider, clock))
	router.AddRoute(exported.Ethereum, ethereum.NewLightClientModule(storeProvider, clock))
	router.AddRoute(exported.Arbitrum, arbitrum.NewLightClientModule(storeProvider, clock, k))
	router.Seal()
	k.router = router

	return k, nil
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetParams returns the parameters of the client keeper.
func (k *Keeper) GetParams() types.Params {
	return k.params
}

// Route returns the light client module for the given client identifier.
func (k *Keeper) Route(clientID string) (exported.LightClientModule, error) {
	clientType, _, err := types.ParseClientIdentifier(clientID)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrInvalidClientIdentifier, "%s: %v", clientID, err)
	}

	lightClientModule, found := k.router.GetRoute(clientType)
	if !found {
		return nil, sdkerrors.Wrap(types.ErrRouteNotFound, clientType)
	}
	return lightClientModule, nil
}

// GetNextClientSequence gets the next client sequence from the store.
func (k *Keeper) GetNextClientSequence() uint64 {
	bz := k.store.Get(host.NextClientSequenceKey())
	if len(bz) == 0 {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

func (k *Keeper) setNextClientSequence(sequence uint64) {
	k.store.Set(host.NextClientSequenceKey(), sdk.Uint64ToBigEndian(sequence))
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate
// namespace without being able to read/write other client's data
func (k *Keeper) ClientStore(clientID string) storetypes.KVStore {
	return k.storeProvider.ClientStore(clientID)
}

// clientLock returns the lock serializing the state transitions of a single client.
func (k *Keeper) clientLock(clientID string) *sync.RWMutex {
	lock, _ := k.locks.LoadOrStore(clientID, &sync.RWMutex{})
	return lock.(*sync.RWMutex)
}
