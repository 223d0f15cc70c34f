package batchrouter

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	walletCommon "github.com/devhb1/1nsync-sub000/services/rebalancer/common"
)

var errorNotAvailableOnChainID = errors.New("BatchSwapRouter not available for chainID")

var contractAddressByChainID = map[uint64]common.Address{
	walletCommon.EthereumMainnet: common.HexToAddress("0x4c60051384bd2d3c01bfc845cf5f4b44bcbe9de5"),
	walletCommon.OptimismMainnet: common.HexToAddress("0x4c60051384bd2d3c01bfc845cf5f4b44bcbe9de5"),
	walletCommon.ArbitrumMainnet: common.HexToAddress("0x4c60051384bd2d3c01bfc845cf5f4b44bcbe9de5"),
	walletCommon.EthereumSepolia: common.HexToAddress("0x179dcc2a9c2d88bb1e7223ded7cd07e7b4fdc6a0"),
}

func ContractAddress(chainID uint64) (common.Address, error) {
	contract, exists := contractAddressByChainID[chainID]
	if !exists {
		return *new(common.Address), errorNotAvailableOnChainID
	}
	return contract, nil
}
