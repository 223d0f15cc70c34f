package ierc20

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// IERC20CallerIface is the read surface of the binding the engine consumes:
// reference-data discovery and allowance checks. Consumers hold it instead of
// the concrete caller so tests can stub the contract without a backend.
type IERC20CallerIface interface {
	Name(opts *bind.CallOpts) (string, error)
	Symbol(opts *bind.CallOpts) (string, error)
	Decimals(opts *bind.CallOpts) (uint8, error)
	Allowance(opts *bind.CallOpts, owner common.Address, spender common.Address) (*big.Int, error)
}

// If the contract changes, this fails to compile; update the interface to
// match.
var _ IERC20CallerIface = (*IERC20Caller)(nil)
