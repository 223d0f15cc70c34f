package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/contracts/ierc20"
	walletCommon "github.com/devhb1/1nsync-sub000/services/rebalancer/common"
)

var requestTimeout = 20 * time.Second

type Token struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name"`
	Symbol  string         `json:"symbol"`
	// Decimals defines how divisible the token is. For example, 0 would be
	// indivisible, whereas 18 would allow very small amounts of the token
	// to be traded.
	Decimals uint   `json:"decimals"`
	ChainID  uint64 `json:"chainId"`
	IconURL  string `json:"iconUrl,omitempty"`
}

func (t *Token) IsNative() bool {
	return t.Address == walletCommon.NativeTokenAddress || t.Address == walletCommon.ZeroAddress
}

// Registry resolves token reference data. Lookups hit an injected TTL cache
// first and fall back to on-chain discovery through the IERC20 binding.
// Entries expire after the configured TTL, there is no unbounded global map.
type Registry struct {
	erc20   func(common.Address) (ierc20.IERC20CallerIface, error)
	chainID uint64
	cache   *ttlcache.Cache[string, *Token]
	logger  *zap.Logger
}

func NewRegistry(backend bind.ContractBackend, chainID uint64, ttl time.Duration, logger *zap.Logger) *Registry {
	cache := ttlcache.New[string, *Token](
		ttlcache.WithTTL[string, *Token](ttl),
		ttlcache.WithDisableTouchOnHit[string, *Token](),
	)
	go cache.Start()

	return &Registry{
		erc20: func(address common.Address) (ierc20.IERC20CallerIface, error) {
			return ierc20.NewIERC20Caller(address, backend)
		},
		chainID: chainID,
		cache:   cache,
		logger:  logger.Named("TokenRegistry"),
	}
}

func (r *Registry) Stop() {
	r.cache.Stop()
}

func cacheKey(chainID uint64, address common.Address) string {
	return fmt.Sprintf("%d-%s", chainID, address.Hex())
}

// Upsert seeds the registry with reference data already known to the caller,
// typically from a balance snapshot.
func (r *Registry) Upsert(token *Token) {
	if token == nil {
		return
	}
	r.cache.Set(cacheKey(token.ChainID, token.Address), token, ttlcache.DefaultTTL)
}

// Resolve returns reference data for the given address, discovering it
// on-chain when the cache has no live entry.
func (r *Registry) Resolve(ctx context.Context, address common.Address) (*Token, error) {
	if item := r.cache.Get(cacheKey(r.chainID, address)); item != nil {
		return item.Value(), nil
	}

	token, err := r.discover(ctx, address)
	if err != nil {
		return nil, err
	}

	r.Upsert(token)
	return token, nil
}

func (r *Registry) discover(ctx context.Context, address common.Address) (*Token, error) {
	if address == walletCommon.ZeroAddress {
		return nil, errors.New("token: cannot discover the zero address")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	caller, err := r.erc20(address)
	if err != nil {
		return nil, err
	}

	opts := &bind.CallOpts{Context: ctx}

	name, err := caller.Name(opts)
	if err != nil {
		return nil, err
	}
	symbol, err := caller.Symbol(opts)
	if err != nil {
		return nil, err
	}
	decimals, err := caller.Decimals(opts)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("discovered token on-chain",
		zap.String("address", address.Hex()),
		zap.String("symbol", symbol))

	return &Token{
		Address:  address,
		Name:     name,
		Symbol:   symbol,
		Decimals: uint(decimals),
		ChainID:  r.chainID,
	}, nil
}
