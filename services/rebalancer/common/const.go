package common

import (
	ethCommon "github.com/ethereum/go-ethereum/common"
)

// Chains the batch router is deployed on.
const (
	EthereumMainnet uint64 = 1
	EthereumSepolia uint64 = 11155111
	OptimismMainnet uint64 = 10
	ArbitrumMainnet uint64 = 42161
)

var (
	ZeroAddress = ethCommon.Address{}

	// NativeTokenAddress is the pseudo address aggregator APIs use for the
	// chain's native asset.
	NativeTokenAddress = ethCommon.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
)
