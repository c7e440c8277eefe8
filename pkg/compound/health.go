package compound

import (
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// USDValue value of amount base units of a token with the given decimals
// at a 1e18 USD price
func USDValue(amount, price *uint256.Int, decimals uint8) (*uint256.Int, error) {
	v, err := number.MulDiv(amount, price, number.Pow10(decimals), false)
	return v, wrap(err)
}

// HealthFactor risk adjusted collateral over debt, 1e18 is the liquidation line
func HealthFactor(collateralUSD, borrowUSD *uint256.Int) (*uint256.Int, error) {
	if borrowUSD.IsZero() {
		return HealthFactorNoDebt.Clone(), nil
	}

	adjusted, err := number.MulDiv(collateralUSD, uint256.NewInt(LiquidationThreshold), bps, false)
	if err != nil {
		return nil, wrap(err)
	}

	hf, err := number.MulDiv(adjusted, precision, borrowUSD, false)
	return hf, wrap(err)
}

// IsHealthy hf at or above the minimum
func IsHealthy(hf *uint256.Int) bool {
	return !hf.Lt(uint256.NewInt(MinHealthFactor))
}
