package compound

import (
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// LiquidationInput borrower figures for one collateral/debt pair
type LiquidationInput struct {
	HealthFactor       *uint256.Int
	Debt               *uint256.Int
	Collateral         *uint256.Int
	Requested          *uint256.Int
	DebtPrice          *uint256.Int
	CollateralPrice    *uint256.Int
	DebtDecimals       uint8
	CollateralDecimals uint8
}

// LiquidationQuote amounts moved by a liquidation
type LiquidationQuote struct {
	Cap   *uint256.Int `json:"cap"`
	Repay *uint256.Int `json:"repay"`
	Seize *uint256.Int `json:"seize"`
	Bonus *uint256.Int `json:"bonus"`
	// Clamped the borrower's collateral could not cover the repay amount
	Clamped bool `json:"clamped"`
}

// CloseFactorCap max debt repayable in one liquidation
func CloseFactorCap(hf, debt *uint256.Int) (*uint256.Int, error) {
	if hf.Lt(uint256.NewInt(CloseFactorHealthThreshold)) {
		return debt.Clone(), nil
	}

	v, err := number.MulDiv(debt, uint256.NewInt(DefaultCloseFactor), bps, false)
	return v, wrap(err)
}

// QuoteLiquidation sizes a liquidation.
//
// The repay amount is bounded by the request and the close factor. When the
// equivalent collateral exceeds what the borrower holds the seizure is clamped
// to the holding, the repay amount is derived back from it and no bonus is paid.
func QuoteLiquidation(in LiquidationInput) (*LiquidationQuote, error) {
	capped, err := CloseFactorCap(in.HealthFactor, in.Debt)
	if err != nil {
		return nil, err
	}

	q := &LiquidationQuote{
		Cap:   capped,
		Repay: number.Min(in.Requested, capped).Clone(),
		Bonus: number.Zero(),
	}

	if q.Seize, err = convert(q.Repay, in.DebtPrice, in.DebtDecimals, in.CollateralPrice, in.CollateralDecimals, false); err != nil {
		return nil, err
	}

	if q.Seize.Gt(in.Collateral) {
		repay, err := convert(in.Collateral, in.CollateralPrice, in.CollateralDecimals, in.DebtPrice, in.DebtDecimals, true)
		if err != nil {
			return nil, err
		}

		q.Clamped = true
		q.Seize = in.Collateral.Clone()
		q.Repay = number.Min(repay, q.Repay).Clone()
		return q, nil
	}

	maxBonus, err := number.MulDiv(q.Seize, uint256.NewInt(LiquidationReward), bps, false)
	if err != nil {
		return nil, wrap(err)
	}

	q.Bonus = number.Min(maxBonus, new(uint256.Int).Sub(in.Collateral, q.Seize)).Clone()
	return q, nil
}

// convert amount of token a into the equal USD worth of token b
//
//	amount * priceA * 10^decimalsB / (priceB * 10^decimalsA)
func convert(amount, priceA *uint256.Int, decimalsA uint8, priceB *uint256.Int, decimalsB uint8, roundUp bool) (*uint256.Int, error) {
	scaled, err := number.Mul(amount, number.Pow10(decimalsB))
	if err != nil {
		return nil, wrap(err)
	}

	denominator, err := number.Mul(priceB, number.Pow10(decimalsA))
	if err != nil {
		return nil, wrap(err)
	}

	return checked(number.MulDiv(scaled, priceA, denominator, roundUp))
}
