package rebalancer

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/contracts/ierc20"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

// ApprovalRequirement flags a sell token whose allowance towards the router
// falls short of the combined amount of every leg selling it. Allowances are
// external mutable state, requirements are re-checked right before
// submission.
type ApprovalRequirement struct {
	Token       token.Token    `json:"token"`
	Spender     common.Address `json:"spender"`
	RequiredRaw *big.Int       `json:"requiredRaw"`
	CurrentRaw  *big.Int       `json:"currentRaw"`
}

// ApprovalCoordinator aggregates required allowances per distinct sell token
// across all legs and checks them against the chain.
type ApprovalCoordinator struct {
	erc20  func(common.Address) (ierc20.IERC20CallerIface, error)
	config Config
	logger *zap.Logger
}

func NewApprovalCoordinator(backend bind.ContractCaller, config Config, logger *zap.Logger) *ApprovalCoordinator {
	return &ApprovalCoordinator{
		erc20: func(address common.Address) (ierc20.IERC20CallerIface, error) {
			return ierc20.NewIERC20Caller(address, backend)
		},
		config: config,
		logger: logger.Named("ApprovalCoordinator"),
	}
}

// RequiredApprovals returns one requirement per sell token whose current
// allowance is below the combined total of its legs, in first-appearance
// order. Native-asset legs need no approval. Re-running after an approval
// confirmed reads the fresh allowance and is idempotent.
func (c *ApprovalCoordinator) RequiredApprovals(ctx context.Context, owner, spender common.Address, legs []SwapInstruction) ([]ApprovalRequirement, error) {
	required := map[common.Address]*big.Int{}
	tokens := map[common.Address]token.Token{}
	var order []common.Address

	for _, leg := range legs {
		if !leg.Quoted() || leg.FromToken.IsNative() {
			continue
		}
		address := leg.FromToken.Address
		if _, seen := required[address]; !seen {
			required[address] = new(big.Int)
			tokens[address] = leg.FromToken
			order = append(order, address)
		}
		required[address].Add(required[address], leg.AmountRaw)
	}

	var requirements []ApprovalRequirement
	for _, address := range order {
		current, err := c.allowance(ctx, address, owner, spender)
		if err != nil {
			return nil, &ApprovalError{Token: address, Symbol: tokens[address].Symbol, Err: err}
		}

		if current.Cmp(required[address]) >= 0 {
			continue
		}

		c.logger.Debug("allowance shortfall",
			zap.String("token", tokens[address].Symbol),
			zap.String("required", required[address].String()),
			zap.String("current", current.String()))

		requirements = append(requirements, ApprovalRequirement{
			Token:       tokens[address],
			Spender:     spender,
			RequiredRaw: required[address],
			CurrentRaw:  current,
		})
	}

	return requirements, nil
}

func (c *ApprovalCoordinator) allowance(ctx context.Context, tokenAddress, owner, spender common.Address) (*big.Int, error) {
	caller, err := c.erc20(tokenAddress)
	if err != nil {
		return nil, err
	}
	return caller.Allowance(&bind.CallOpts{Context: ctx}, owner, spender)
}

// ApprovalAmount is the amount an approval transaction grants: the exact
// combined requirement, or MaxUint256 when the unlimited policy is enabled.
func (c *ApprovalCoordinator) ApprovalAmount(requirement ApprovalRequirement) *big.Int {
	if c.config.UnlimitedApprovals {
		return new(big.Int).Set(math.MaxBig256)
	}
	return new(big.Int).Set(requirement.RequiredRaw)
}

// ApprovalCalldata packs an ERC20 approve call for the requirement.
func (c *ApprovalCoordinator) ApprovalCalldata(requirement ApprovalRequirement) ([]byte, error) {
	parsed, err := abi.JSON(strings.NewReader(ierc20.IERC20ABI))
	if err != nil {
		return nil, err
	}
	return parsed.Pack("approve", requirement.Spender, c.ApprovalAmount(requirement))
}
