package compound

import (
	"errors"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

const (
	// Precision fixed point unit of rates, utilization, prices and health factors
	Precision uint64 = 1e18
	// BPS denominator of ratios and fees
	BPS uint64 = 1e5

	// SecondsPerStep length of one accrual step
	SecondsPerStep int64 = 15
	// StepsPerYear accrual steps per year
	StepsPerYear uint64 = 2102400

	// LiquidationThreshold share of collateral value counted toward health, bps
	LiquidationThreshold uint64 = 80000
	// LiquidationReward bonus collateral granted to liquidators, bps
	LiquidationReward uint64 = 5000
	// DefaultCloseFactor max share of debt liquidatable per call, bps
	DefaultCloseFactor uint64 = 50000
	// CloseFactorHealthThreshold below this health factor the whole debt is liquidatable
	CloseFactorHealthThreshold uint64 = 9e17
	// MinHealthFactor accounts below are liquidatable
	MinHealthFactor uint64 = 1e18

	// PriceDecimals decimals of normalized USD prices
	PriceDecimals = 18
	// PriceStaleSteps prices older than this many steps are stale
	PriceStaleSteps = 3
	// PriceMaxAge PriceStaleSteps in wall time
	PriceMaxAge = PriceStaleSteps * time.Duration(SecondsPerStep) * time.Second
)

var (
	// HealthFactorNoDebt health factor of accounts without debt
	HealthFactorNoDebt = new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(MinHealthFactor))

	// RepayAll repays the whole debt of the caller
	RepayAll = new(uint256.Int).SetAllOne()

	precision = uint256.NewInt(Precision)
	bps       = uint256.NewInt(BPS)
)

// wrap maps arithmetic failures onto pool errors
func wrap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, number.ErrOverflow) {
		return core.WrapError(core.ErrOverflow, err)
	}

	if errors.Is(err, number.ErrUnderflow) {
		return core.WrapError(core.ErrInsufficientLiquidity, err)
	}

	return core.WrapError(core.ErrUnknown, err)
}

func checked(x *uint256.Int, err error) (*uint256.Int, error) {
	if err != nil {
		return nil, wrap(err)
	}

	if err := number.Check128(x); err != nil {
		return nil, wrap(err)
	}

	return x, nil
}
