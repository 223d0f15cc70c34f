package transactions

import (
	"context"
	"math/big"
)

// SuggestedFees is an EIP-1559 fee suggestion derived from the head block.
type SuggestedFees struct {
	BaseFee              *big.Int
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
}

// SuggestFees reads the head base fee and the node's tip suggestion. The fee
// cap leaves room for the base fee to double before the tx stalls.
func SuggestFees(ctx context.Context, backend Backend) (*SuggestedFees, error) {
	tip, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	header, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}

	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = new(big.Int)
	}

	maxFee := new(big.Int).Mul(baseFee, big.NewInt(2))
	maxFee.Add(maxFee, tip)

	return &SuggestedFees{
		BaseFee:              baseFee,
		MaxPriorityFeePerGas: tip,
		MaxFeePerGas:         maxFee,
	}, nil
}
