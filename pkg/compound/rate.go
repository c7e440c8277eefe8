package compound

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// UtilizationRate borrows / assets in 1e18
func UtilizationRate(v *core.Vault) (*uint256.Int, error) {
	if v.TotalAsset.Amount.IsZero() {
		return number.Zero(), nil
	}

	u, err := number.MulDiv(v.TotalBorrow.Amount, precision, v.TotalAsset.Amount, false)
	return u, wrap(err)
}

// BorrowRate annualized borrow rate on the kinked curve
//
//	u <= optimal: base + u * slope1 / optimal
//	u >  optimal: base + slope1 + (u - optimal) * slope2 / (1e18 - optimal)
func BorrowRate(u *uint256.Int, p core.RateParams) (uint64, error) {
	optimal := uint256.NewInt(p.OptimalUtilization)
	rate := uint256.NewInt(p.BaseRate)

	var (
		slope *uint256.Int
		err   error
	)

	if u.Cmp(optimal) <= 0 {
		slope, err = number.MulDiv(u, uint256.NewInt(p.Slope1), optimal, false)
	} else {
		rate.Add(rate, uint256.NewInt(p.Slope1))
		excess := new(uint256.Int).Sub(u, optimal)
		slope, err = number.MulDiv(excess, uint256.NewInt(p.Slope2), new(uint256.Int).Sub(precision, optimal), false)
	}

	if err != nil {
		return 0, wrap(err)
	}

	rate.Add(rate, slope)
	if !rate.IsUint64() {
		return 0, core.NewError(core.ErrOverflow, "borrow rate %s exceeds 64 bits", rate.Dec())
	}

	return rate.Uint64(), nil
}

// SupplyRate annualized rate earned by suppliers, net of the protocol fee
func SupplyRate(v *core.Vault) (uint64, error) {
	u, err := UtilizationRate(v)
	if err != nil {
		return 0, err
	}

	borrowRate, err := BorrowRate(u, v.RateInfo.RateParams)
	if err != nil {
		return 0, err
	}

	r, err := number.MulDiv(uint256.NewInt(borrowRate), u, precision, false)
	if err != nil {
		return 0, wrap(err)
	}

	r, err = number.MulDiv(r, uint256.NewInt(BPS-v.RateInfo.FeeToProtocolRate), bps, false)
	if err != nil {
		return 0, wrap(err)
	}

	return r.Uint64(), nil
}

// ValidateParams bounds check of vault parameters
func ValidateParams(p core.RateParams) error {
	if p.ReserveRatio > BPS {
		return core.NewError(core.ErrInvalidParams, "reserve ratio %d exceeds %d", p.ReserveRatio, BPS)
	}

	if p.FeeToProtocolRate > BPS {
		return core.NewError(core.ErrInvalidParams, "protocol fee rate %d exceeds %d", p.FeeToProtocolRate, BPS)
	}

	if p.FlashFeeRate > BPS {
		return core.NewError(core.ErrInvalidParams, "flash fee rate %d exceeds %d", p.FlashFeeRate, BPS)
	}

	if p.OptimalUtilization == 0 || p.OptimalUtilization >= Precision {
		return core.NewError(core.ErrInvalidParams, "optimal utilization must be in (0, %d)", Precision)
	}

	// the steepest point of the curve must still fit the stored rate
	top := new(uint256.Int).Add(uint256.NewInt(p.BaseRate), uint256.NewInt(p.Slope1))
	top.Add(top, uint256.NewInt(p.Slope2))
	if !top.IsUint64() {
		return core.NewError(core.ErrInvalidParams, "base rate and slopes overflow")
	}

	return nil
}
