package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

const receiptPollInterval = 2 * time.Second

// ErrConfirmationTimeout is returned when a transaction stayed pending for
// the whole confirmation window.
var ErrConfirmationTimeout = errors.New("timed out waiting for transaction confirmation")

// WaitForReceipt polls for the receipt of hash until it lands or the timeout
// elapses. Cancelling ctx stops the wait early. The receipt is returned
// regardless of its status, reverts are the caller's to interpret.
func WaitForReceipt(ctx context.Context, backend Backend, hash common.Hash, timeout time.Duration) (*gethtypes.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var receipt *gethtypes.Receipt
	poll := func() error {
		var err error
		receipt, err = backend.TransactionReceipt(ctx, hash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return err // still pending, retry
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(receiptPollInterval), ctx)
	if err := backoff.Retry(poll, bo); err != nil {
		if errors.Is(err, ethereum.NotFound) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrConfirmationTimeout
		}
		return nil, err
	}

	return receipt, nil
}
