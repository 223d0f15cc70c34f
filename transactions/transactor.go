package transactions

import (
	"context"
	"errors"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	defaultGas = 90000

	rpcCallTimeout = 10 * time.Second
)

var ErrInvalidSendTxArgs = errors.New("transaction arguments are invalid")

// Backend is the subset of an ethclient the transactor relies on.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// SignerFn signs a built transaction on behalf of the given account. Key
// custody stays with the caller, the transactor never sees private keys.
type SignerFn func(address common.Address, tx *gethtypes.Transaction) (*gethtypes.Transaction, error)

// SendTxArgs describes one transaction to build, sign and broadcast. Zero
// Gas means estimate, nil Nonce means next pending nonce.
type SendTxArgs struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Gas   uint64
	Data  []byte
	Nonce *uint64
}

func (args SendTxArgs) Valid() bool {
	return args.To != nil || len(args.Data) > 0
}

// Transactor builds EIP-1559 transactions, has them signed by the caller's
// signer and propagates them to the network.
type Transactor struct {
	backend Backend
	chainID *big.Int
	logger  *zap.Logger
}

func NewTransactor(backend Backend, chainID uint64, logger *zap.Logger) *Transactor {
	return &Transactor{
		backend: backend,
		chainID: new(big.Int).SetUint64(chainID),
		logger:  logger.Named("Transactor"),
	}
}

// SendTransaction fills in nonce, fees and gas, signs through sign and
// broadcasts. Returns the transaction hash on success.
func (t *Transactor) SendTransaction(ctx context.Context, args SendTxArgs, sign SignerFn) (common.Hash, error) {
	if !args.Valid() {
		return common.Hash{}, ErrInvalidSendTxArgs
	}

	tx, err := t.buildTransaction(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := sign(args.From, tx)
	if err != nil {
		return common.Hash{}, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()
	if err := t.backend.SendTransaction(sendCtx, signed); err != nil {
		return common.Hash{}, err
	}

	t.logger.Debug("transaction sent",
		zap.String("hash", signed.Hash().Hex()),
		zap.Uint64("nonce", signed.Nonce()),
		zap.Uint64("gas", signed.Gas()))

	return signed.Hash(), nil
}

func (t *Transactor) buildTransaction(ctx context.Context, args SendTxArgs) (*gethtypes.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	nonce := uint64(0)
	if args.Nonce != nil {
		nonce = *args.Nonce
	} else {
		var err error
		nonce, err = t.backend.PendingNonceAt(ctx, args.From)
		if err != nil {
			return nil, err
		}
	}

	fees, err := SuggestFees(ctx, t.backend)
	if err != nil {
		return nil, err
	}

	gas := args.Gas
	if gas == 0 {
		gas, err = t.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  args.From,
			To:    args.To,
			Value: args.Value,
			Data:  args.Data,
		})
		if err != nil {
			t.logger.Debug("gas estimation failed, using default", zap.Error(err))
			gas = defaultGas
		}
	}

	value := args.Value
	if value == nil {
		value = new(big.Int)
	}

	return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   t.chainID,
		Nonce:     nonce,
		GasTipCap: fees.MaxPriorityFeePerGas,
		GasFeeCap: fees.MaxFeePerGas,
		Gas:       gas,
		To:        args.To,
		Value:     value,
		Data:      args.Data,
	}), nil
}
