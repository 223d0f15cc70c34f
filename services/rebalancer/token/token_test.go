package token

import (
	"context"
	"encoding/hex"
	"math/big"
	"sync"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// erc20Backend answers name/symbol/decimals calls with fixed reference data.
type erc20Backend struct {
	mu    sync.Mutex
	calls int
}

func encodeString(value string) []byte {
	encoded := make([]byte, 0, 96)
	encoded = append(encoded, common.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(big.NewInt(int64(len(value))).Bytes(), 32)...)
	encoded = append(encoded, common.RightPadBytes([]byte(value), 32)...)
	return encoded
}

func (b *erc20Backend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (b *erc20Backend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	switch hex.EncodeToString(call.Data[:4]) {
	case "06fdde03": // name()
		return encodeString("Dai Stablecoin"), nil
	case "95d89b41": // symbol()
		return encodeString("DAI"), nil
	case "313ce567": // decimals()
		return common.LeftPadBytes(big.NewInt(18).Bytes(), 32), nil
	}
	return nil, ethereum.NotFound
}

func (b *erc20Backend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return nil, nil
}

func (b *erc20Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}

func (b *erc20Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *erc20Backend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *erc20Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}

func (b *erc20Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return nil
}

func (b *erc20Backend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return nil, ethereum.NotFound
}

func (b *erc20Backend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *erc20Backend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, ethereum.NotFound
}

func TestRegistryResolveDiscoversOnChain(t *testing.T) {
	backend := &erc20Backend{}
	registry := NewRegistry(backend, 1, time.Minute, zap.NewNop())
	defer registry.Stop()

	address := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tok, err := registry.Resolve(context.Background(), address)
	require.NoError(t, err)
	require.Equal(t, "DAI", tok.Symbol)
	require.Equal(t, "Dai Stablecoin", tok.Name)
	require.Equal(t, uint(18), tok.Decimals)
	require.Equal(t, uint64(1), tok.ChainID)

	// second resolve is served from the cache
	callsAfterDiscovery := backend.calls
	_, err = registry.Resolve(context.Background(), address)
	require.NoError(t, err)
	require.Equal(t, callsAfterDiscovery, backend.calls)
}

func TestRegistryUpsertSeedsCache(t *testing.T) {
	backend := &erc20Backend{}
	registry := NewRegistry(backend, 1, time.Minute, zap.NewNop())
	defer registry.Stop()

	seeded := &Token{
		Address:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
		ChainID:  1,
	}
	registry.Upsert(seeded)

	tok, err := registry.Resolve(context.Background(), seeded.Address)
	require.NoError(t, err)
	require.Equal(t, seeded, tok)
	require.Equal(t, 0, backend.calls)
}

func TestRegistryRejectsZeroAddress(t *testing.T) {
	registry := NewRegistry(&erc20Backend{}, 1, time.Minute, zap.NewNop())
	defer registry.Stop()

	_, err := registry.Resolve(context.Background(), common.Address{})
	require.Error(t, err)
}

func TestTokenIsNative(t *testing.T) {
	native := Token{Address: common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")}
	require.True(t, native.IsNative())

	erc20 := Token{Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")}
	require.False(t, erc20.IsNative())
}
